// Package config reads service configuration.
//
// Business code depends on the Config interface; Viper is the file-backed
// implementation used by the application.
package config
