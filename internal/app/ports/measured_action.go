package ports

type MeasuredActionLabel string
type MeasuredActionResult string

const (
	MALabelAction   MeasuredActionLabel = "action"
	MALabelUsername MeasuredActionLabel = "username"
	MALabelResult   MeasuredActionLabel = "result"

	MAResultSuccess      MeasuredActionResult = "success"
	MAResultFailure      MeasuredActionResult = "failure"
	MAResultNotFound     MeasuredActionResult = "not-found"
	MAResultInvalidPath  MeasuredActionResult = "invalid-path"
	MAResultUnauthorized MeasuredActionResult = "unauthorized"
	MAResultConflict     MeasuredActionResult = "conflict"
)

type MeasuredAction interface {
	Done(result MeasuredActionResult) MeasuredAction
	Duration() float64
	Labels() map[MeasuredActionLabel]string
}

type ActionMetrics interface {
	OnActionDone(action MeasuredAction)
}
