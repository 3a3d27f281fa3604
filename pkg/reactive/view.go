package reactive

// ViewUpdate defers fn until the host reports that the view has been
// checked, that is until AfterViewChecked of the component whose Update is
// running. It must be called on the goroutine executing Update.
func ViewUpdate(fn func()) error {
	if fn == nil {
		return nil
	}
	if !appendViewAction(fn) {
		return errViewUpdateOutsideUpdate()
	}
	return nil
}
