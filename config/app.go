package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	MailAPIURL  string `env:"MAIL_API_URL"`
	MailAPIKey  string `env:"MAIL_API_KEY"`
	ResetURL    string `env:"PASSWORD_RESET_URL" default:"http://localhost:3000/reset-password"`
	Env         string `env:"APP_ENV" default:"dev"`
}
