package ports

// ChangeSuppressor pauses change notifications for a directory while the
// directory is being modified on purpose. Calling resume re-enables them.
type ChangeSuppressor interface {
	Suppress(dir string) (resume func())
}

// ChangeEvent reports that a watched directory changed on disk
type ChangeEvent struct {
	Dir string
}

// ChangeNotifier delivers coalesced change events for watched directories
type ChangeNotifier interface {
	ChangeSuppressor
	Watch(dir string) error
	Unwatch(dir string) error
	Subscribe() <-chan ChangeEvent
	Unsubscribe(ch <-chan ChangeEvent)
	Close() error
}
