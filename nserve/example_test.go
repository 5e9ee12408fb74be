package nserve_test

import (
	"fmt"

	"github.com/muir/ntrack/nserve"
	"github.com/pkg/errors"
)

type library struct {
	name string
}

func (l *library) Stop() error {
	fmt.Println(l.name, "stopped")
	return fmt.Errorf("%s stop error", l.name)
}

func ErrorCombiner(e1, e2 error) error {
	return errors.New(e1.Error() + "; " + e2.Error())
}

// Example shows the startup and shutdown of an app with two libraries
func Example() {
	start := nserve.Start.Copy().SetErrorCombiner(ErrorCombiner)
	stop := nserve.NewHook("stop", nserve.ReverseOrder).ContinuePastError(true).SetErrorCombiner(ErrorCombiner)
	start.OnError(nil).OnError(stop)

	app := nserve.NewApp()
	for _, name := range []string{"L1", "L2"} {
		l := &library{name: name}
		app.On(start, func(nserve.Event) error {
			app.On(stop, func(nserve.Event) error { return l.Stop() })
			fmt.Println(l.name, "started")
			if l.name == "L2" {
				return fmt.Errorf("L2 start error")
			}
			return nil
		})
	}
	err := app.Do(start, nil)
	fmt.Println("do start error:", err)
	// Output: L1 started
	// L2 started
	// L2 stopped
	// L1 stopped
	// do start error: hook start: L2 start error; hook stop: L2 stop error; hook stop: L1 stop error
}
