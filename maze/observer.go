package maze

// WallRemovalObserver is notified each time generation opens the wall between two cells.
// It is called synchronously from Generator.Step and must not call back into the generator.
type WallRemovalObserver interface {
	OnWallOpened(from, to Cell)
}

// ObserverFunc adapts an ordinary function to a WallRemovalObserver.
type ObserverFunc func(from, to Cell)

// OnWallOpened calls f(from, to).
func (f ObserverFunc) OnWallOpened(from, to Cell) {
	f(from, to)
}

// Observers fans an event out to every non-nil observer, in order.
type Observers []WallRemovalObserver

// OnWallOpened notifies each observer in turn.
func (obs Observers) OnWallOpened(from, to Cell) {
	for _, o := range obs {
		if o != nil {
			o.OnWallOpened(from, to)
		}
	}
}
