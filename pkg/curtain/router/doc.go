// Package router provides screen navigation with explicit data flow on top of
// a curtain queue.
//
// Each screen has explicit input and result types, and a centralized
// transition function holds all routing logic. Screens run one at a time:
// every step is a queue request whose result feeds the transition function,
// so a screen is always fully closed before the next one opens.
//
// # Basic Usage
//
//	// Define screen identifiers as typed constants
//	const (
//	    ScreenList router.Screen = iota
//	    ScreenDetail
//	)
//
//	type ListInput struct {
//	    Items  []Item
//	    Resume *ListResume // nil if fresh, populated if returning
//	}
//
//	type ListResult struct {
//	    Action   ListAction
//	    Selected *Item
//	    Resume   *ListResume
//	}
//
//	r := router.New(queue.Options{})
//
//	r.Register(ScreenList, func(input any) (any, error) {
//	    return listScreen(input.(ListInput)), nil
//	})
//
//	r.OnTransition(func(from router.Screen, result any, history *router.History) (router.Screen, any) {
//	    switch from {
//	    case ScreenList:
//	        res := result.(ListResult)
//	        if res.Action == ActionSelected {
//	            history.Push(from, input, res.Resume)
//	            return ScreenDetail, DetailInput{Item: res.Selected}
//	        }
//	    case ScreenDetail:
//	        if entry := history.Pop(); entry != nil {
//	            in := entry.Input.(ListInput)
//	            in.Resume = entry.Resume.(*ListResume)
//	            return entry.Screen, in
//	        }
//	    }
//	    return router.ScreenExit, nil
//	})
//
//	err := r.Run(ctx, ScreenList, ListInput{Items: items})
//
// # Resume State
//
// Screens can return resume state (like scroll position) that gets stored in
// the history when navigating forward. When navigating back, this state is
// passed back to the screen via its input, allowing it to restore position.
//
// # Failures
//
// A screen function that returns an error ends Run with that error wrapped in
// a *curtain.LoadError. The router clears the queue so Run can be called again.
package router
