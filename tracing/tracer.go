// Package tracing follows the orders of a kitchen through the hooks the
// coordinator raises.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/kitchen/kitchen"
	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/sim/hooking"
)

// NamedHookable is a hookable object with a name.
type NamedHookable interface {
	hooking.Hookable
	Name() string
}

// A Tracer is told about every order a kitchen spawns, delivers, or loses.
// The order has already been recycled when OrderDelivered and OrderExpired
// are called; its recipe and times are still readable.
type Tracer interface {
	OrderSpawned(kitchen string, o *order.Order)
	OrderDelivered(kitchen string, o *order.Order, tip int)
	OrderExpired(kitchen string, o *order.Order)
}

// CollectTrace attaches the tracer to the domain. Attaching the same tracer
// twice panics.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	for _, h := range domain.Hooks() {
		if th, ok := h.(*traceHook); ok && th.t == tracer {
			panic(fmt.Sprintf("domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer, domain: domain.Name()})
}

type traceHook struct {
	t      Tracer
	domain string
}

func (h *traceHook) Func(ctx hooking.HookCtx) {
	o, ok := ctx.Item.(*order.Order)
	if !ok {
		return
	}

	switch ctx.Pos {
	case kitchen.HookPosOrderSpawned:
		h.t.OrderSpawned(h.domain, o)
	case kitchen.HookPosOrderDelivered:
		tip, _ := ctx.Detail.(int)
		h.t.OrderDelivered(h.domain, o, tip)
	case kitchen.HookPosOrderExpired:
		h.t.OrderExpired(h.domain, o)
	}
}
