// Package confloader loads layered configuration with koanf and watches
// configuration files with fsnotify.
//
// Layers, later overriding earlier: defaults, YAML file, BEATOKEN_*
// environment variables, explicit overrides (command-line flags).
package confloader
