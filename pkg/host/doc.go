// Package host is a minimal change-detection host for reactive components.
//
// It provides the collaborators a component embedding reactive.Reactive
// expects from its surrounding framework: an injector (Registry) that
// resolves the mark-dirty notifier (Detector), the lifecycle hook
// interfaces, and a Fixture that mounts one component and drives it
// through detection cycles:
//
//	h := host.New()
//	c := NewCounter(h.Injector())
//	f := h.Mount(c)
//	defer f.Destroy()
//
//	f.SetInput("Title", "Clicks")
//	if err := f.DetectChanges(); err != nil {
//	    return err
//	}
//	fmt.Println(f.Text())
//
// Each DetectChanges call runs, in order: OnChanges (when inputs changed),
// OnInit (first cycle only), DoCheck, Render and AfterViewChecked.
//
// Run drives cycles whenever the component marks itself dirty, which is how
// asynchronous sources bound to cells reach the view.
package host
