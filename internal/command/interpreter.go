// Package command turns raw operator input into engine actions. Every
// submitted line terminates in a notification; no input can take the
// session down.
package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/calebmoore/clipfactory/internal/engine"
	"github.com/calebmoore/clipfactory/internal/notify"
)

var countPattern = regexp.MustCompile(`^\d+$`)

const helpText = `commands:
  fabricate                     make clips by hand
  buy autoclipper [n]           add automated clippers
  buy factory [n]               add factories (once unlocked)
  buy wire [n]                  restock wire spools
  set price <value>             set the clip price ($0.05 - $2.50)
  launch marketing              run a marketing campaign (once unlocked)
  optimize                      overhaul the production line (once unlocked)
  status                        show the factory snapshot
  buttons <on|off>              toggle the button panel
  help                          this reference`

// Interpreter parses operator input, dispatches to the engine, and reports
// outcomes through the sink. It also keeps input history and the
// presentation-only buttons flag.
type Interpreter struct {
	eng    *engine.Engine
	sink   notify.Sink
	render notify.Renderer

	history History
	buttons bool
}

// New wires an interpreter to an engine and a sink. The button panel starts
// enabled.
func New(eng *engine.Engine, sink notify.Sink) *Interpreter {
	return &Interpreter{
		eng:     eng,
		sink:    sink,
		render:  notify.Renderer{Sink: sink},
		history: NewHistory(),
		buttons: true,
	}
}

// ButtonsEnabled reports the presentation-only button panel flag.
func (i *Interpreter) ButtonsEnabled() bool { return i.buttons }

// Dispatch handles one raw input line. Empty lines are ignored; everything
// else is echoed, recorded in history, and routed to exactly one action or
// one validation failure.
func (i *Interpreter) Dispatch(raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}

	i.history.Push(trimmed)
	defer i.history.ResetCursor()

	// Echo the operator's own words verbatim, forced into view.
	i.sink.Notify(notify.Notification{
		Channel:      notify.ChannelOperator,
		Message:      trimmed,
		ForceVisible: true,
	})

	fields := strings.Fields(strings.ToLower(trimmed))
	switch fields[0] {
	case "help":
		i.sink.Notify(notify.Notification{Channel: notify.ChannelSystem, Message: helpText})
	case "fabricate":
		i.render.Fabricate(i.eng.Fabricate())
	case "buy":
		i.dispatchBuy(fields)
	case "set":
		i.dispatchSet(fields)
	case "buttons":
		i.dispatchButtons(fields)
	case "launch":
		if len(fields) == 2 && fields[1] == "marketing" {
			i.render.Marketing(i.eng.LaunchMarketing())
			return
		}
		i.fail(notify.ChannelSystem, "unknown launch target — try 'launch marketing'")
	case "optimize":
		i.render.Optimize(i.eng.Optimize())
	case "status":
		i.sink.Notify(notify.Notification{Channel: notify.ChannelSystem, Message: i.eng.Status()})
	default:
		i.fail(notify.ChannelSystem,
			fmt.Sprintf("command not recognized: %q — try 'help'", fields[0]))
	}
}

func (i *Interpreter) dispatchBuy(fields []string) {
	if len(fields) < 2 {
		i.fail(notify.ChannelSupply, "buy what? autoclipper, factory, or wire")
		return
	}

	count := 1
	if len(fields) >= 3 {
		if !countPattern.MatchString(fields[2]) {
			i.fail(notify.ChannelSupply,
				fmt.Sprintf("quantity %q must be a positive whole number", fields[2]))
			return
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 1 {
			i.fail(notify.ChannelSupply,
				fmt.Sprintf("quantity %q must be a positive whole number", fields[2]))
			return
		}
		count = n
	}

	switch fields[1] {
	case "autoclipper", "autoclippers":
		i.render.Purchase(i.eng.BuyAutoclippers(count))
	case "factory", "factories":
		i.render.Purchase(i.eng.BuyFactories(count))
	case "wire", "wires":
		i.render.Purchase(i.eng.BuyWire(count))
	default:
		i.fail(notify.ChannelSupply,
			fmt.Sprintf("unknown purchase target %q — autoclipper, factory, or wire", fields[1]))
	}
}

func (i *Interpreter) dispatchSet(fields []string) {
	if len(fields) != 3 || fields[1] != "price" {
		i.fail(notify.ChannelMarket, "usage: set price <value>")
		return
	}
	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		i.fail(notify.ChannelMarket, fmt.Sprintf("price %q is not a number", fields[2]))
		return
	}
	i.render.Price(i.eng.SetPrice(v))
}

func (i *Interpreter) dispatchButtons(fields []string) {
	if len(fields) != 2 {
		i.fail(notify.ChannelSystem, "usage: buttons <on|off>")
		return
	}

	var want bool
	switch fields[1] {
	case "on", "enable":
		want = true
	case "off", "disable":
		want = false
	default:
		i.fail(notify.ChannelSystem, "usage: buttons <on|off>")
		return
	}

	if want == i.buttons {
		state := "disabled"
		if want {
			state = "enabled"
		}
		i.sink.Notify(notify.Notification{
			Channel:  notify.ChannelSystem,
			Message:  "buttons already " + state,
			Severity: notify.SeverityWarning,
		})
		return
	}

	i.buttons = want
	state := "disabled"
	if want {
		state = "enabled"
	}
	i.sink.Notify(notify.Notification{
		Channel:  notify.ChannelSystem,
		Message:  "button panel " + state,
		Severity: notify.SeveritySuccess,
	})
}

func (i *Interpreter) fail(channel, msg string) {
	i.sink.Notify(notify.Notification{
		Channel:  channel,
		Message:  msg,
		Severity: notify.SeverityWarning,
	})
}
