package export

const (
	ShareTitle = "Análise de Avatar - UP Lançamentos"
	ShareText  = "Confira minha análise de mercado completa!"
)

type ShareMode string

const (
	// ShareNative hands the payload to the browser's share sheet.
	ShareNative ShareMode = "native"
	// ShareClipboard copies the URL instead.
	ShareClipboard ShareMode = "clipboard"
)

type ShareAction struct {
	Mode  ShareMode `json:"mode"`
	Title string    `json:"title"`
	Text  string    `json:"text"`
	URL   string    `json:"url"`
}

// NewShareAction picks native sharing when the client supports it and
// falls back to copying url.
func NewShareAction(url string, nativeSupported bool) ShareAction {
	mode := ShareClipboard
	if nativeSupported {
		mode = ShareNative
	}
	return ShareAction{
		Mode:  mode,
		Title: ShareTitle,
		Text:  ShareText,
		URL:   url,
	}
}
