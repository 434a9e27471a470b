package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile   string
	LogLevel     string
	Dir          string
	Provider     string
	Client       string
	Resources    []string
	AllResources bool
	Frequency    string
	Month        int
	Year         int
	Addr         string
}
