package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
)

// RegistrationMode defines how a component is registered and initialized.
type RegistrationMode int

const (
	Eager     RegistrationMode = iota // Initialize immediately on registration
	Lazy                              // Initialize on first resolve
	Singleton                         // Pre-created instance
)

// String returns the mode name used in bootstrap summaries.
func (m RegistrationMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Container defines the interface for dependency injection.
type Container interface {
	// Register registers a lazily constructed bean. A key can be registered once.
	Register(key string, constructor interface{}) error
	// RegisterEager registers and constructs a bean immediately.
	RegisterEager(key string, constructor interface{}) error
	// RegisterSingleton registers an already built instance.
	RegisterSingleton(key string, instance interface{}) error
	// RegisterIfAbsent registers a lazy bean only when key is free. It reports
	// whether the registration happened.
	RegisterIfAbsent(key string, constructor interface{}) (bool, error)
	// Has reports whether key is registered.
	Has(key string) bool
	// Resolve returns the bean for key, constructing it on first use.
	Resolve(key string) (interface{}, error)
	// Registrations returns registered beans in registration order.
	Registrations() []RegistrationInfo
	// Close closes every constructed bean implementing Close() error, newest first.
	Close() error
}

// RegistrationInfo provides information about a registered bean.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Type        reflect.Type
	Initialized bool
}

// UnifiedContainer implements Container. All registration and lazy
// construction happens under one lock, so concurrent resolution of the same
// key always observes a single instance.
type UnifiedContainer struct {
	registrations map[string]*registration
	order         []string
	mutex         sync.Mutex
}

type registration struct {
	key         string
	constructor interface{}
	mode        RegistrationMode
	typ         reflect.Type
	instance    interface{}
	initialized bool
}

// NewContainer creates a new empty container.
func NewContainer() *UnifiedContainer {
	return &UnifiedContainer{
		registrations: make(map[string]*registration),
	}
}

// Register registers a lazy bean.
func (c *UnifiedContainer) Register(key string, constructor interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.addLocked(key, constructor, Lazy)
}

// RegisterEager registers a bean and constructs it immediately.
func (c *UnifiedContainer) RegisterEager(key string, constructor interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.addLocked(key, constructor, Eager); err != nil {
		return err
	}
	reg := c.registrations[key]
	if _, err := c.initializeLocked(reg); err != nil {
		c.removeLocked(key)
		return fmt.Errorf("failed to initialize eager component '%s': %w", key, err)
	}
	return nil
}

// RegisterSingleton registers a pre-created instance.
func (c *UnifiedContainer) RegisterSingleton(key string, instance interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.registrations[key]; exists {
		return errors.AlreadyRegistered(key)
	}
	c.registrations[key] = &registration{
		key:         key,
		mode:        Singleton,
		typ:         reflect.TypeOf(instance),
		instance:    instance,
		initialized: true,
	}
	c.order = append(c.order, key)
	return nil
}

// RegisterIfAbsent registers a lazy bean when key is not yet taken.
func (c *UnifiedContainer) RegisterIfAbsent(key string, constructor interface{}) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.registrations[key]; exists {
		logger.Debug("Bean already present, skipping registration", map[string]interface{}{
			logger.FieldBean: key,
		})
		return false, nil
	}
	if err := c.addLocked(key, constructor, Lazy); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether key is registered.
func (c *UnifiedContainer) Has(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	_, exists := c.registrations[key]
	return exists
}

// Resolve resolves a bean by key.
func (c *UnifiedContainer) Resolve(key string) (interface{}, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	reg, exists := c.registrations[key]
	if !exists {
		return nil, errors.NotRegistered(key)
	}
	return c.initializeLocked(reg)
}

func (c *UnifiedContainer) addLocked(key string, constructor interface{}, mode RegistrationMode) error {
	if _, exists := c.registrations[key]; exists {
		return errors.AlreadyRegistered(key)
	}
	typ, err := constructorType(constructor)
	if err != nil {
		return fmt.Errorf("register %s: %w", key, err)
	}
	c.registrations[key] = &registration{
		key:         key,
		constructor: constructor,
		mode:        mode,
		typ:         typ,
	}
	c.order = append(c.order, key)
	return nil
}

func (c *UnifiedContainer) removeLocked(key string) {
	delete(c.registrations, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// initializeLocked constructs reg once. Constructors run with the container
// lock held and therefore must not resolve from the container themselves;
// constructors that need collaborators take them from their closure.
func (c *UnifiedContainer) initializeLocked(reg *registration) (interface{}, error) {
	if reg.initialized {
		return reg.instance, nil
	}

	instance, err := callConstructor(reg.constructor)
	if err != nil {
		logger.Debug("Bean construction failed", map[string]interface{}{
			logger.FieldBean:  reg.key,
			logger.FieldError: err.Error(),
		})
		return nil, err
	}

	reg.instance = instance
	reg.initialized = true
	logger.Debug("Bean constructed", map[string]interface{}{
		logger.FieldBean: reg.key,
		"mode":           reg.mode.String(),
	})
	return instance, nil
}

// constructorType returns the bean type a constructor produces.
func constructorType(constructor interface{}) (reflect.Type, error) {
	fnType := reflect.TypeOf(constructor)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function")
	}
	if fnType.NumIn() > 1 || (fnType.NumIn() == 1 && fnType.In(0) != contextType) {
		return nil, fmt.Errorf("constructor must take no arguments or a context.Context")
	}
	switch fnType.NumOut() {
	case 1:
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("constructor second result must be an error")
		}
	default:
		return nil, fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}
	return fnType.Out(0), nil
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// callConstructor calls a constructor using reflection.
func callConstructor(constructor interface{}) (interface{}, error) {
	fn := reflect.ValueOf(constructor)

	var results []reflect.Value
	if fn.Type().NumIn() == 1 {
		results = fn.Call([]reflect.Value{reflect.ValueOf(context.Background())})
	} else {
		results = fn.Call(nil)
	}

	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// Registrations returns information about all registered beans in
// registration order.
func (c *UnifiedContainer) Registrations() []RegistrationInfo {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result := make([]RegistrationInfo, 0, len(c.order))
	for _, key := range c.order {
		reg := c.registrations[key]
		result = append(result, RegistrationInfo{
			Key:         key,
			Mode:        reg.mode,
			Type:        reg.typ,
			Initialized: reg.initialized,
		})
	}
	return result
}

// Close closes all constructed beans that implement Close() error, in
// reverse registration order. The first error is returned.
func (c *UnifiedContainer) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var firstErr error
	for i := len(c.order) - 1; i >= 0; i-- {
		reg := c.registrations[c.order[i]]
		if !reg.initialized || reg.instance == nil {
			continue
		}
		if closer, ok := reg.instance.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("close %s: %w", reg.key, err)
			}
		}
	}
	return firstErr
}
