package di

import (
	"fmt"
	"reflect"
)

// MustResolve resolves a component with type safety, panics on error.
//
// Example:
//
//	db := di.MustResolve[*sql.DB](c, di.Beans.DataSource)
func MustResolve[T any](c Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a component with type safety, returns error on failure.
// The returned error wraps the container error, so errors.HasCode still
// matches NOT_REGISTERED.
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryResolve resolves a component, returns zero value and false if not found.
// Use this when a dependency is optional.
func TryResolve[T any](c Container, key string) (T, bool) {
	result, err := Resolve[T](c, key)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}

// RegisterIfAbsent registers a typed lazy constructor under key unless key is
// taken, then resolves whatever key holds. The boolean reports whether this
// call's constructor was the one registered.
//
// Example:
//
//	cfg, created, err := di.RegisterIfAbsent(c, di.Beans.DMNEngineConfiguration,
//	    func() (*dmn.EngineConfiguration, error) { return build() })
func RegisterIfAbsent[T any](c Container, key string, constructor func() (T, error)) (T, bool, error) {
	var zero T
	created, err := c.RegisterIfAbsent(key, constructor)
	if err != nil {
		return zero, false, err
	}
	result, err := Resolve[T](c, key)
	if err != nil {
		return zero, created, err
	}
	return result, created, nil
}

// ResolveAll resolves every bean whose declared type is assignable to T, in
// registration order. Lazy beans of other types are not constructed.
func ResolveAll[T any](c Container) ([]T, error) {
	target := reflect.TypeOf((*T)(nil)).Elem()

	var result []T
	for _, info := range c.Registrations() {
		if info.Type == nil || !info.Type.AssignableTo(target) {
			continue
		}
		instance, err := c.Resolve(info.Key)
		if err != nil {
			return nil, fmt.Errorf("di: failed to resolve %s: %w", info.Key, err)
		}
		if instance == nil {
			continue
		}
		typed, ok := instance.(T)
		if !ok {
			// unnamed func or struct types assignable to a named T
			typed = reflect.ValueOf(instance).Convert(target).Interface().(T)
		}
		result = append(result, typed)
	}
	return result, nil
}
