package config

import "github.com/spf13/pflag"

// Flags are command-line overrides. Only flags the user actually set
// override the loaded config.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath string
	Material   string
	Width      int
	Height     int
	ZUp        bool
	Watch      bool
	Debug      bool
	LogFile    string
}

// BindFlags registers the viewer flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.StringVarP(&f.Material, "material", "m", "", "Initial material: matcap, depth or normal")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.BoolVar(&f.ZUp, "z-up", false, "Treat the model's Z axis as up")
	fs.BoolVarP(&f.Watch, "watch", "w", false, "Reload the model when its file changes")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	return f
}

// Apply applies flag overrides to cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Material != "" {
		cfg.Render.Material = f.Material
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.changed("z-up") {
		cfg.Model.ZUp = f.ZUp
	}
	if f.changed("watch") {
		cfg.Model.Watch = f.Watch
	}
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// Load loads the config named by --config (or the standard locations) and
// applies the overrides.
func (f *Flags) Load() (*Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	f.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
