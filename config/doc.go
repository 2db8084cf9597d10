// Package config loads service configuration with Viper.
//
// A YAML file is read first, then a .env file (via godotenv) is merged into
// the process environment, and finally environment variables override file
// values. With the default "RESTKIT" prefix, RESTKIT_HTTP_TIMEOUT overrides
// the http.timeout key.
//
//	var cfg MyConfig
//	err := config.Load("billing", &cfg, config.WithConfigFile("config.yml"))
package config
