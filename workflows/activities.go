package workflows

import "wallet-journeys/activities"

// a supplies method values for workflow.ExecuteActivity. Workers register
// their own configured *activities.Activities; the nil receiver here is never
// called.
var a *activities.Activities
