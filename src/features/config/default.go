package config

var defaultConfig = Config{
	LibraryPath: "./library",
	InboxPath:   "./inbox",
	Logger: Logger{
		Enabled: true,
		Level:   "info",
		Format:  "text",
	},
	Server: Server{
		PrintRoutes: false,
		Port:        3636,
	},
	Database: Database{
		Path: "./catalog.db",
	},
	Exiftool: Exiftool{
		Binary:  "exiftool",
		Workers: 2,

		GroupNames:   false,
		NumericTags:  []string{"Orientation"},
		Geolocation:  false,
		StructFormat: 0,

		DefaultVideosToUTC:    true,
		PreferTzFromGps:       false,
		BackfillTimezones:     true,
		InferTzFromDatestamps: true,
		IgnoreZeroZeroLatLon:  true,
	},
	Organize: Organize{
		Enabled:      false,
		Move:         false,
		PathTemplate: "$year/$year-$month/%asciify{$camera}/$filename",
	},
	Watch: Watch{
		Enabled:   false,
		AutoStart: false,
	},
	Jobs: Jobs{
		Log:     true,
		LogPath: "./logs/jobs",
		Webhooks: WebhookConfig{
			Enabled:  false,
			JobTypes: []string{},
			Command:  "",
		},
	},
	Telegram: Telegram{
		Enabled:      false,
		Token:        "",                                   // Can be obtained with https://t.me/BotFather
		AllowedUsers: []string{"<your_telegram_username>"}, // No @
		BotHandle:    "@<YourTelegramUserBot>",             // With @
	},
}

func createDefaultConfig() *Config {
	cfg := defaultConfig
	return &cfg
}
