package internal

type application struct {
	config *Config
}

// Option configures the application at startup.
type Option func(*application)

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(app *application) {
		app.config = cfg
	}
}
