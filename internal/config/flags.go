package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagFPS     = flag.Int("fps", 0, "Target frames per second")
	flagWorkers = flag.Int("workers", -1, "Rasterizer worker count (0 = one per CPU)")
	flagModel   = flag.String("model", "", "Sphere model file (OBJ/GLB) instead of procedural geometry")
	flagNoCull  = flag.Bool("no-cull", false, "Disable backface culling")
	flagLogFile = flag.String("log", "", "Log file path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFPS > 0 {
		cfg.Graphics.FPSLimit = *flagFPS
	}
	if *flagWorkers >= 0 {
		cfg.Graphics.Workers = *flagWorkers
	}
	if *flagModel != "" {
		cfg.Scene.ModelPath = *flagModel
	}
	if *flagNoCull {
		cfg.Graphics.BackfaceCulling = false
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
