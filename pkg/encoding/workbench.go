package encoding

import "fmt"

// Sample is a quick-fill payload offered by the encoder tool.
type Sample struct {
	Label string
	Text  string
}

// Samples returns the quick-fill payloads in display order.
func Samples() []Sample {
	return []Sample{
		{Label: "SQLi", Text: "' OR '1'='1"},
		{Label: "XSS", Text: "<script>alert(1)</script>"},
		{Label: "Path", Text: "../../../etc/passwd"},
		{Label: "CMDi", Text: "; cat /etc/passwd"},
		{Label: "SSRF", Text: "http://169.254.169.254/latest/meta-data/"},
	}
}

// Workbench is the encoder tool's session state: an input pane, an output
// pane and the selected mode. The zero value is not ready; use NewWorkbench.
type Workbench struct {
	Input  string
	Output string
	// Err holds the last decode failure. It is cleared by every
	// successful operation so a stale error never lingers.
	Err  error
	mode Mode
}

// NewWorkbench returns a workbench with URL mode selected.
func NewWorkbench() *Workbench {
	return &Workbench{mode: URL}
}

// Mode returns the selected mode.
func (w *Workbench) Mode() Mode { return w.mode }

// SetMode selects a mode and re-encodes the current input with it.
func (w *Workbench) SetMode(m Mode) error {
	if _, ok := registry[m]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}
	w.mode = m
	if w.Input != "" {
		w.Encode()
	}
	return nil
}

// Encode writes the encoded input into the output pane.
func (w *Workbench) Encode() string {
	out, err := Encode(w.mode, w.Input)
	w.Output, w.Err = out, err
	return w.Output
}

// Decode decodes the output pane into the input pane. On failure the input
// pane is cleared and Err is set.
func (w *Workbench) Decode() (string, error) {
	in, err := Decode(w.mode, w.Output)
	if err != nil {
		w.Input, w.Err = "", err
		return "", err
	}
	w.Input, w.Err = in, nil
	return in, nil
}

// Swap exchanges the two panes.
func (w *Workbench) Swap() {
	w.Input, w.Output = w.Output, w.Input
	w.Err = nil
}

// Clear empties both panes.
func (w *Workbench) Clear() {
	w.Input, w.Output, w.Err = "", "", nil
}

// Load fills the input pane from sample i and encodes it.
func (w *Workbench) Load(i int) bool {
	samples := Samples()
	if i < 0 || i >= len(samples) {
		return false
	}
	w.Input = samples[i].Text
	w.Encode()
	return true
}
