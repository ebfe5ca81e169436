package host

import (
	"context"
	"fmt"
	"log"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/module"
)

// Name is the navigation name of the fractal-sets module.
const Name = "fractal-sets"

// Module mounts the fractal explorer. Dial starts or connects to the
// worker that renders for one mount.
type Module struct {
	Dial    func(ctx context.Context) (fractal.WorkerLink, error)
	Padding float64
}

func (m Module) Mount(c module.Container) (module.Mounted, error) {
	link, err := m.Dial(context.Background())
	if err != nil {
		return module.Mounted{}, fmt.Errorf("start worker: %w", err)
	}

	padding := m.Padding
	if padding == 0 {
		padding = fractal.DefaultPadding
	}
	h, err := Mount(c, link, padding)
	if err != nil {
		if cerr := link.Close(); cerr != nil {
			log.Printf("host: close worker: %v", cerr)
		}
		return module.Mounted{}, err
	}
	return module.Mounted{View: h, BeforeUnmount: h.Unmount}, nil
}
