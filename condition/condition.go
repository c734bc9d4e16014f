package condition

import (
	"fmt"
	"sort"
	"strings"
)

// Property keys of the engine activation flags.
const (
	DMNEnabledKey     = "flowable.dmn.enabled"
	ProcessEnabledKey = "flowable.process.enabled"
	// DMNConditionKey holds an optional CEL expression that must also hold
	// for the DMN engine to be configured.
	DMNConditionKey = "flowable.dmn.condition"
)

// Context is what a condition may inspect.
type Context interface {
	// Property returns the value bound to a dot-separated key.
	Property(key string) (any, bool)
	// HasBean reports whether a bean with the given key is registered.
	HasBean(name string) bool
	// Beans lists registered bean keys.
	Beans() []string
	// Properties returns every bound property.
	Properties() Properties
}

// Outcome is the result of evaluating a condition.
type Outcome struct {
	Match   bool
	Message string
}

// Condition is a predicate over a Context.
type Condition interface {
	Evaluate(ctx Context) (Outcome, error)
}

// Func adapts a function to Condition.
type Func func(ctx Context) (Outcome, error)

// Evaluate calls f.
func (f Func) Evaluate(ctx Context) (Outcome, error) { return f(ctx) }

// Properties is a flat property source keyed by dot-separated names.
type Properties map[string]any

// Get returns the value for key.
func (p Properties) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// Keys returns the property keys in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BeanLister is the part of the bean container conditions look at.
type BeanLister interface {
	Has(key string) bool
}

// StaticContext is a Context over fixed properties and a bean lookup.
type StaticContext struct {
	Props    Properties
	Lookup   BeanLister
	BeanKeys func() []string
}

// NewContext builds a Context from properties and an optional bean container.
func NewContext(props Properties, beans BeanLister, keys func() []string) *StaticContext {
	return &StaticContext{Props: props, Lookup: beans, BeanKeys: keys}
}

// Property implements Context.
func (c *StaticContext) Property(key string) (any, bool) { return c.Props.Get(key) }

// HasBean implements Context.
func (c *StaticContext) HasBean(name string) bool {
	return c.Lookup != nil && c.Lookup.Has(name)
}

// Properties implements Context.
func (c *StaticContext) Properties() Properties { return c.Props }

// Beans implements Context.
func (c *StaticContext) Beans() []string {
	if c.BeanKeys == nil {
		return nil
	}
	return c.BeanKeys()
}

// OnProperty matches when key holds havingValue (case-insensitive). An empty
// havingValue matches any value except "false". matchIfMissing decides the
// outcome when the key is not bound.
func OnProperty(key, havingValue string, matchIfMissing bool) Condition {
	return Func(func(ctx Context) (Outcome, error) {
		v, ok := ctx.Property(key)
		if !ok || v == nil {
			if matchIfMissing {
				return Outcome{Match: true, Message: fmt.Sprintf("property %s not set, matching by default", key)}, nil
			}
			return Outcome{Match: false, Message: fmt.Sprintf("property %s not set", key)}, nil
		}

		actual := strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
		var match bool
		if havingValue == "" {
			match = actual != "false"
		} else {
			match = actual == strings.ToLower(havingValue)
		}

		if match {
			return Outcome{Match: true, Message: fmt.Sprintf("property %s=%s matched", key, actual)}, nil
		}
		return Outcome{Match: false, Message: fmt.Sprintf("property %s=%s did not match", key, actual)}, nil
	})
}

// OnDMNEngine holds unless flowable.dmn.enabled is false.
func OnDMNEngine() Condition {
	return named("OnDMNEngine", OnProperty(DMNEnabledKey, "true", true))
}

// OnProcessEngine holds unless flowable.process.enabled is false.
func OnProcessEngine() Condition {
	return named("OnProcessEngine", OnProperty(ProcessEnabledKey, "true", true))
}

// OnBean matches when every named bean is registered.
func OnBean(names ...string) Condition {
	return Func(func(ctx Context) (Outcome, error) {
		for _, n := range names {
			if !ctx.HasBean(n) {
				return Outcome{Match: false, Message: fmt.Sprintf("bean %s not found", n)}, nil
			}
		}
		return Outcome{Match: true, Message: fmt.Sprintf("found beans %v", names)}, nil
	})
}

// OnMissingBean matches when none of the named beans is registered.
func OnMissingBean(names ...string) Condition {
	return Func(func(ctx Context) (Outcome, error) {
		for _, n := range names {
			if ctx.HasBean(n) {
				return Outcome{Match: false, Message: fmt.Sprintf("found existing bean %s", n)}, nil
			}
		}
		return Outcome{Match: true, Message: fmt.Sprintf("no existing beans %v", names)}, nil
	})
}

// All matches when every condition matches. Evaluation stops at the first
// mismatch, whose message becomes the outcome message.
func All(conds ...Condition) Condition {
	return Func(func(ctx Context) (Outcome, error) {
		messages := make([]string, 0, len(conds))
		for _, c := range conds {
			o, err := c.Evaluate(ctx)
			if err != nil {
				return Outcome{}, err
			}
			if !o.Match {
				return o, nil
			}
			messages = append(messages, o.Message)
		}
		return Outcome{Match: true, Message: strings.Join(messages, "; ")}, nil
	})
}

// Any matches when at least one condition matches.
func Any(conds ...Condition) Condition {
	return Func(func(ctx Context) (Outcome, error) {
		messages := make([]string, 0, len(conds))
		for _, c := range conds {
			o, err := c.Evaluate(ctx)
			if err != nil {
				return Outcome{}, err
			}
			if o.Match {
				return o, nil
			}
			messages = append(messages, o.Message)
		}
		return Outcome{Match: false, Message: strings.Join(messages, "; ")}, nil
	})
}

// Not inverts a condition.
func Not(c Condition) Condition {
	return Func(func(ctx Context) (Outcome, error) {
		o, err := c.Evaluate(ctx)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Match: !o.Match, Message: "NOT " + o.Message}, nil
	})
}

// named replaces the outcome message prefix with a condition name.
func named(name string, c Condition) Condition {
	return Func(func(ctx Context) (Outcome, error) {
		o, err := c.Evaluate(ctx)
		if err != nil {
			return Outcome{}, err
		}
		if o.Match {
			o.Message = name + " matched"
		} else {
			o.Message = name + " did not match: " + o.Message
		}
		return o, nil
	})
}
