// Package config resolves labctl's runtime configuration from defaults, an
// optional config file, and LABCTL_-prefixed environment variables. It also
// owns the path conventions for generated artifacts: the session store file
// and the per-session compose and inventory files under the data directory.
package config
