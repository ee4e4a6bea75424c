// Package runtime wires storage, stores, the live bus, the retriever, and
// the subscription engine into a single-node mirror instance.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default(), Logger: logger})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
package runtime
