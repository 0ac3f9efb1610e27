package config

const (
	defaultTmpDir           = "~/.local/share/szurutool/tmp"
	defaultLogDir           = "~/.local/share/szurutool/logs"
	defaultHistoryPath      = "~/.local/share/szurutool/history.db"
	defaultRange            = ":10000"
	defaultSafety           = "safe"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultDownloaderBinary = "gallery-dl"
	defaultDownloadTimeout  = 3600
	defaultDanbooruBaseURL  = "https://danbooru.donmai.us"
	defaultGelbooruBaseURL  = "https://gelbooru.com"
	defaultMinSimilarity    = 80.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Import: Import{
			TmpDir:        defaultTmpDir,
			DefaultRange:  defaultRange,
			DefaultSafety: defaultSafety,
			AutoTag:       true,
		},
		Downloader: Downloader{
			Binary:         defaultDownloaderBinary,
			TimeoutSeconds: defaultDownloadTimeout,
		},
		History: History{
			Path: defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
		Danbooru: BooruAccount{
			BaseURL: defaultDanbooruBaseURL,
		},
		Gelbooru: BooruAccount{
			BaseURL: defaultGelbooruBaseURL,
		},
		SauceNAO: SauceNAO{
			MinSimilarity: defaultMinSimilarity,
		},
	}
}
