// Package config holds the shared reCAPTCHA configuration that widgets fall
// back to when they are not given a site key or script URL directly.
//
// Applications register one or more named Config values in a Registry, usually
// at startup from a YAML file (LoadFile) or the environment (FromEnv). Widgets
// look their entry up by name during configuration and never mutate it.
package config
