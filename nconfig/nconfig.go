/*
Package nconfig loads ntrack options from a YAML file and from the
environment.

Option names are used as keys.  In the environment they are upper
case, prefixed with NTRACK_ and use underscores:

	duplicate-policy: legacy
	scan-packages: [github.com/acme/app/ext]
	disable-packages: [github.com/acme/app/legacy]

is the same as

	NTRACK_DUPLICATE_POLICY=legacy
	NTRACK_SCAN_PACKAGES="github.com/acme/app/ext"
	NTRACK_DISABLE_PACKAGES="github.com/acme/app/legacy"
*/
package nconfig

import (
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/muir/ntrack"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DisablePackagesKey lists packages whose items are disabled
const DisablePackagesKey = "disable-packages"

// New returns a viper instance that reads NTRACK_ environment variables.
// If path is not empty the file is read too: a missing file is not an
// error.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("NTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, errors.Wrapf(err, "read ntrack config %s", path)
	}
	return v, nil
}

// Apply sets every known option that has a value in v on the options
// of c and registers a disable predicate for disable-packages.  The
// predicate is attributed to the current scope of c.
func Apply(v *viper.Viper, c *ntrack.Context) error {
	for _, def := range ntrack.KnownOptions() {
		name := def.Name()
		if !v.IsSet(name) {
			continue
		}
		value, err := typed(v, name, def.Default())
		if err != nil {
			return err
		}
		if err := c.Options().Set(name, value); err != nil {
			return errors.Wrapf(err, "option %s from config", name)
		}
	}
	if pkgs := v.GetStringSlice(DisablePackagesKey); len(pkgs) > 0 {
		c.RegisterDisablePredicates(ntrack.InPackage(pkgs...))
	}
	return nil
}

// Load is New followed by Apply
func Load(path string, c *ntrack.Context) error {
	v, err := New(path)
	if err != nil {
		return err
	}
	return Apply(v, c)
}

// typed reads name from v as the type of def
func typed(v *viper.Viper, name string, def any) (any, error) {
	switch def.(type) {
	case bool:
		return v.GetBool(name), nil
	case string:
		return v.GetString(name), nil
	case int:
		return v.GetInt(name), nil
	case []string:
		return v.GetStringSlice(name), nil
	case time.Duration:
		return v.GetDuration(name), nil
	case float64:
		return v.GetFloat64(name), nil
	}
	raw := v.Get(name)
	if raw == nil || def == nil || reflect.TypeOf(raw).AssignableTo(reflect.TypeOf(def)) {
		return raw, nil
	}
	return nil, errors.Wrapf(ntrack.ErrInvalidOption, "option %s wants %T, got %T", name, def, raw)
}
