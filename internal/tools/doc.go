// Package tools defines the closed set of tools the assistant can
// call: their names, argument structs with validation, JSON schemas for
// the model, and a Runner that executes validated invocations against
// the calendar and Gmail adapters.
//
// The tool set is an enumeration, not a registry. Parse, the Runner's
// Invoke switch and the schema definitions all cover exactly the names
// in Names(); a new tool is added by extending each switch, and the
// compiler points at every site that needs it.
//
// Example usage:
//
//	runner := tools.NewRunner(calendarClient, gmailClient, loc)
//
//	inv := tools.NewInvocation(tools.ListEvents, json.RawMessage(`{"days": 3}`))
//	result, err := runner.Invoke(ctx, inv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Content)
package tools
