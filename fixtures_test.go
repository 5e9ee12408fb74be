package ntrack

import (
	"reflect"
)

// Instance fixtures carry a field: pointers to zero sized values may
// share an address.
type (
	dbModule     struct{ dsn string }
	cacheModule  struct{ size int }
	plainBundle  struct{ n int }
	namedBundle  struct{ name string }
	serverBundle struct{ port int }
)

func (b *namedBundle) Equal(other any) bool {
	o, ok := other.(*namedBundle)
	return ok && o.name == b.name
}

// class fixtures
type (
	resourceInstaller struct{}
	healthInstaller   struct{}
	usersResource     struct{}
	pingHealthCheck   struct{}
	unusedExtension   struct{}
	migrateCommand    struct{}
)

var (
	dbModuleT          = reflect.TypeOf(&dbModule{})
	cacheModuleT       = reflect.TypeOf(&cacheModule{})
	plainBundleT       = reflect.TypeOf(&plainBundle{})
	namedBundleT       = reflect.TypeOf(&namedBundle{})
	serverBundleT      = reflect.TypeOf(&serverBundle{})
	resourceInstallerT = reflect.TypeOf(resourceInstaller{})
	healthInstallerT   = reflect.TypeOf(healthInstaller{})
	usersResourceT     = reflect.TypeOf(usersResource{})
	pingHealthCheckT   = reflect.TypeOf(pingHealthCheck{})
	unusedExtensionT   = reflect.TypeOf(unusedExtension{})
	migrateCommandT    = reflect.TypeOf(migrateCommand{})
)
