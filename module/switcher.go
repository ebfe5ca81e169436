package module

import (
	"fmt"
	"log"
)

// Switcher keeps at most one module mounted in a container.
type Switcher struct {
	c       Container
	modules map[string]Module
	names   []string

	active  string
	mounted Mounted
}

func NewSwitcher(c Container) *Switcher {
	return &Switcher{c: c, modules: make(map[string]Module)}
}

// Register adds a module under name. Names keep registration order.
func (s *Switcher) Register(name string, m Module) {
	if _, ok := s.modules[name]; !ok {
		s.names = append(s.names, name)
	}
	s.modules[name] = m
}

func (s *Switcher) Names() []string {
	return s.names
}

// Show unmounts the current module and mounts name.
func (s *Switcher) Show(name string) error {
	m, ok := s.modules[name]
	if !ok {
		return fmt.Errorf("unknown module %q", name)
	}
	s.Close()

	mounted, err := m.Mount(s.c)
	if err != nil {
		return fmt.Errorf("mount %s: %w", name, err)
	}
	s.active, s.mounted = name, mounted
	log.Printf("mounted module %s", name)
	return nil
}

// Active returns the mounted module, if any.
func (s *Switcher) Active() (string, View) {
	return s.active, s.mounted.View
}

// Close unmounts the current module.
func (s *Switcher) Close() {
	if s.active == "" {
		return
	}
	if s.mounted.BeforeUnmount != nil {
		s.mounted.BeforeUnmount()
	}
	log.Printf("unmounted module %s", s.active)
	s.active, s.mounted = "", Mounted{}
}
