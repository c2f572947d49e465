// Package watcher rescans a mods directory when its archives change.
//
// A Watcher registers the directory with fsnotify and coalesces the events
// for mod archives (.jar and .jar.disabled) into one callback per debounce
// window, so renaming a file to disable it or copying in a batch of updates
// triggers a single rescan.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//		Dir:    "/games/pack/mods",
//		Logger: logger,
//		OnChange: func(ctx context.Context, changed []string) error {
//			return rescan(ctx)
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := w.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// The watch command can also run detached; StartDaemon re-executes the
// binary with the same arguments and tracks it through a PID file.
package watcher
