package vanilla

// CSS class names emitted by the renderer. Stylesheets target these;
// they are part of the renderer's output contract.
const (
	classField    = "genui-field"
	classLabel    = "genui-label"
	classRequired = "genui-required"
	classControl  = "genui-control"
	classHelp     = "genui-help"
	classToggle   = "genui-toggle"
)
