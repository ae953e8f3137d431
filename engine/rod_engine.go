package engine

import (
	"context"
	"fmt"
)

// RenderFunc renders a page in a real browser. It is injected from main so
// that engine/ never imports browser/.
type RenderFunc func(ctx context.Context, req *FetchRequest) (*FetchResult, error)

// RodEngine exposes a browser renderer as an Engine. With forceStealth the
// engine is named "rod-stealth" and always renders with evasions enabled.
type RodEngine struct {
	render       RenderFunc
	forceStealth bool
}

func NewRodEngine(render RenderFunc, forceStealth bool) *RodEngine {
	return &RodEngine{render: render, forceStealth: forceStealth}
}

func (e *RodEngine) Name() string {
	if e.forceStealth {
		return "rod-stealth"
	}
	return "rod"
}

func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.render == nil {
		return nil, fmt.Errorf("%s: renderer not configured", e.Name())
	}

	r := *req
	if e.forceStealth {
		r.Stealth = true
	}

	result, err := e.render(ctx, &r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name(), err)
	}
	result.EngineName = e.Name()
	return result, nil
}
