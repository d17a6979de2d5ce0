package config

// Config holds the application configuration.
type Config struct {
	LibraryPath string   `yaml:"libraryPath" validate:"required"`
	InboxPath   string   `yaml:"inboxPath" validate:"required"`
	Logger      Logger   `yaml:"logger"`
	Server      Server   `yaml:"server"`
	Database    Database `yaml:"database"`
	Exiftool    Exiftool `yaml:"exiftool"`
	Organize    Organize `yaml:"organize"`
	Watch       Watch    `yaml:"watch"`
	Jobs        Jobs     `yaml:"jobs"`
	Telegram    Telegram `yaml:"telegram"`
}

// Exiftool holds the worker pool and decode settings.
type Exiftool struct {
	Binary  string `yaml:"binary" validate:"required"`
	Workers int    `yaml:"workers"`

	GroupNames    bool     `yaml:"group_names"`
	NumericTags   []string `yaml:"numeric_tags"`
	Geolocation   bool     `yaml:"geolocation"`
	ImageHashType string   `yaml:"image_hash_type"`
	StructFormat  int      `yaml:"struct_format"`

	DefaultVideosToUTC    bool `yaml:"default_videos_to_utc"`
	PreferTzFromGps       bool `yaml:"prefer_tz_from_gps"`
	BackfillTimezones     bool `yaml:"backfill_timezones"`
	InferTzFromDatestamps bool `yaml:"infer_tz_from_datestamps"`
	IgnoreZeroZeroLatLon  bool `yaml:"ignore_zero_zero_lat_lon"`
}

// Organize holds the library layout settings.
type Organize struct {
	Enabled      bool   `yaml:"enabled"`
	Move         bool   `yaml:"move"` // if false, copies
	PathTemplate string `yaml:"path_template"`
}

// Watch holds the inbox watcher settings.
type Watch struct {
	Enabled   bool `yaml:"enabled"`
	AutoStart bool `yaml:"auto_start"`
}

type Jobs struct {
	Log      bool          `yaml:"log"`
	LogPath  string        `yaml:"log_path"`
	Webhooks WebhookConfig `yaml:"webhooks"`
}

type WebhookConfig struct {
	Enabled  bool     `yaml:"enabled"`
	JobTypes []string `yaml:"job_types"`
	Command  string   `yaml:"command"`
}

// Database holds the configuration for the catalog database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
	BotHandle    string   `yaml:"bot_handle"`
}
