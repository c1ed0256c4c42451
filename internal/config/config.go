// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds rendering settings.
type GraphicsConfig struct {
	FPSLimit        int  `yaml:"fps_limit"`
	Workers         int  `yaml:"workers"`          // 0 = one per CPU
	BackfaceCulling bool `yaml:"backface_culling"`
	ShowHUD         bool `yaml:"show_hud"`
}

// SceneConfig holds scene content settings.
type SceneConfig struct {
	ModelPath      string  `yaml:"model_path"` // OBJ/GLB sphere override; empty = procedural
	SphereRings    int     `yaml:"sphere_rings"`
	SphereSegments int     `yaml:"sphere_segments"`
	TimeScale      float64 `yaml:"time_scale"`
}

// CameraConfig holds initial camera settings.
type CameraConfig struct {
	FOVDegrees float64 `yaml:"fov_degrees"`
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	MoveStep   float64 `yaml:"move_step"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			FPSLimit:        30,
			Workers:         0,
			BackfaceCulling: true,
			ShowHUD:         true,
		},
		Scene: SceneConfig{
			SphereRings:    24,
			SphereSegments: 48,
			TimeScale:      1.0,
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Near:       0.1,
			Far:        1000,
			MoveStep:   0.5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "orrery.log",
		},
	}
}
