// Package config provides viper-based loading of mirror node configuration
// from file and MIRROR_-prefixed environment variables, with defaults and
// validation.
//
// Example:
//
//	cfg, err := config.Load("/etc/mirrord.yaml")
//	if err != nil {
//	    // fall back or fail
//	}
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
package config
