package flow

// ViewState names the four mutually exclusive views of the form page.
// Exactly one is active at any time.
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewForm
	ViewSuccess
	ViewError
)

func (s ViewState) String() string {
	switch s {
	case ViewLoading:
		return "loading"
	case ViewForm:
		return "form"
	case ViewSuccess:
		return "success"
	case ViewError:
		return "error"
	default:
		return "unknown"
	}
}
