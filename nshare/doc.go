/*
Package nshare is a write-once store for values that need to cross
configuration phases that cannot otherwise see each other.

Each application gets one State.  A State is found through a Registry
by its owner (the application object) or by any handle attached to the
owner.  While the owner does not exist yet, code in the startup call
chain can reach the State through a context.Context:

	state := nshare.New()
	ctx := nshare.WithStartup(context.Background(), state)
	...
	s, err := nshare.Startup(ctx)

Values are keyed by string.  The typed helpers key values by the fully
qualified name of their type:

	_ = nshare.Put(state, &Environment{})
	nshare.WhenReady(state, func(env *Environment) { ... })

Every read is recorded.  AccessReport shows who set each value and who
read it, and which values were wanted but never set.
*/
package nshare
