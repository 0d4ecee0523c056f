package cfg

type Cfg struct {
	// Storage configuration
	DBPath   string
	CacheDir string

	// Application configuration
	SourcesFile  string
	Port         string
	APIAccessKey string

	// Normalization defaults
	CacheEnabled     bool
	CacheTTLMinutes  int
	SummaryMaxLength int
	ImageSource      string
	DateFormat       string
	ExtractContent   bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string

	// Args holds leftover positional arguments: ad-hoc feed sources.
	Args []string
}
