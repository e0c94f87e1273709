package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"diskread/src/diskfile"

	"gopkg.in/yaml.v3"
)

const DefaultFile = "diskread.json"

type Config struct {
	Mode            string `json:"mode" yaml:"mode"`                           // blob/base64
	Accept          string `json:"accept" yaml:"accept"`                       // accept filter
	Title           string `json:"title" yaml:"title"`                         // dialog title
	GraceMS         int    `json:"grace_ms" yaml:"grace_ms"`                   // cancel inference window
	DecodeTimeoutMS int    `json:"decode_timeout_ms" yaml:"decode_timeout_ms"` // 0 disables
	MaxParallel     int    `json:"max_parallel" yaml:"max_parallel"`           // 0 unbounded
	Order           string `json:"order" yaml:"order"`                         // completion/selection
	Thumbnail       int    `json:"thumbnail" yaml:"thumbnail"`                 // thumbnail edge in px
}

func defaultConfig() Config {
	return Config{
		Mode:            string(diskfile.ModeBlob),
		Accept:          diskfile.DefaultAccept,
		GraceMS:         int(diskfile.DefaultGrace / time.Millisecond),
		DecodeTimeoutMS: int(diskfile.DefaultDecodeTimeout / time.Millisecond),
		MaxParallel:     0,
		Order:           diskfile.OrderCompletion.String(),
		Thumbnail:       128,
	}
}

func Default() *Config {
	c := defaultConfig()
	return &c
}

// Load reads file, or returns the defaults when it does not exist.
// An empty path means DefaultFile. YAML is used for .yaml and .yml files.
func Load(file string) (*Config, error) {
	if file == "" {
		file = DefaultFile
	}

	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return Default(), nil
	} else if err != nil {
		return nil, err
	}

	c := defaultConfig()
	if isYAML(file) {
		err = yaml.Unmarshal(data, &c)
	} else {
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("error decode config %s: %w", file, err)
	}
	correctableConfig(&c)

	return &c, nil
}

func (c *Config) Save(file string) error {
	if file == "" {
		file = DefaultFile
	}
	var (
		data []byte
		err  error
	)
	if isYAML(file) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "    ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0644)
}

func (c *Config) PickerOptions() []diskfile.Option {
	return []diskfile.Option{
		diskfile.WithGrace(time.Duration(c.GraceMS) * time.Millisecond),
		diskfile.WithDecodeTimeout(time.Duration(c.DecodeTimeoutMS) * time.Millisecond),
		diskfile.WithMaxParallel(c.MaxParallel),
		diskfile.WithOrder(diskfile.ParseOrder(c.Order)),
		diskfile.WithTitle(c.Title),
	}
}

func isYAML(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	return ext == ".yaml" || ext == ".yml"
}

func correctableConfig(c *Config) {
	def := defaultConfig()
	c.Mode = string(diskfile.ParseMode(c.Mode))
	if strings.TrimSpace(c.Accept) == "" {
		c.Accept = def.Accept
	}
	if c.GraceMS <= 0 {
		c.GraceMS = def.GraceMS
	}
	if c.DecodeTimeoutMS < 0 {
		c.DecodeTimeoutMS = def.DecodeTimeoutMS
	}
	if c.MaxParallel < 0 {
		c.MaxParallel = def.MaxParallel
	}
	c.Order = diskfile.ParseOrder(c.Order).String()
	if c.Thumbnail < 16 || c.Thumbnail > 1024 {
		c.Thumbnail = def.Thumbnail
	}
}
