package node

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WindowProperties is the allow-list of names treated as built-in globals of
// a window object.
type WindowProperties map[string]struct{}

func NewWindowProperties(names ...string) WindowProperties {
	w := make(WindowProperties, len(names))
	for _, name := range names {
		w[name] = struct{}{}
	}
	return w
}

func (w WindowProperties) Contains(name string) bool {
	_, ok := w[name]
	return ok
}

// ReadWindowProperties parses one name per line. Blank lines and lines
// starting with # are skipped.
func ReadWindowProperties(r io.Reader) (WindowProperties, error) {
	w := WindowProperties{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read window properties: %w", err)
	}
	return w, nil
}

// DefaultWindowProperties is a baseline list of standard browser globals.
func DefaultWindowProperties() WindowProperties {
	return NewWindowProperties(
		"window", "self", "document", "name", "location", "customElements",
		"history", "locationbar", "menubar", "personalbar", "scrollbars",
		"statusbar", "toolbar", "status", "closed", "frames", "length", "top",
		"opener", "parent", "frameElement", "navigator", "external",
		"applicationCache", "screen", "innerWidth", "innerHeight", "scrollX",
		"pageXOffset", "scrollY", "pageYOffset", "screenX", "screenY",
		"outerWidth", "outerHeight", "performance", "mozInnerScreenX",
		"mozInnerScreenY", "devicePixelRatio", "scrollMaxX", "scrollMaxY",
		"fullScreen", "ondevicemotion", "ondeviceorientation", "onabort",
		"onblur", "onfocus", "onchange", "onclick", "onclose", "onerror",
		"oninput", "onkeydown", "onkeypress", "onkeyup", "onload", "onmessage",
		"onmousedown", "onmousemove", "onmouseout", "onmouseover", "onmouseup",
		"onresize", "onscroll", "onsubmit", "onunload", "onbeforeunload",
		"onhashchange", "onpopstate", "onstorage", "crypto", "indexedDB",
		"sessionStorage", "localStorage", "console", "origin", "isSecureContext",
		"caches", "speechSynthesis", "visualViewport", "alert", "confirm",
		"prompt", "print", "open", "close", "stop", "focus", "blur",
		"postMessage", "getSelection", "getComputedStyle", "matchMedia",
		"moveTo", "moveBy", "resizeTo", "resizeBy", "scroll", "scrollTo",
		"scrollBy", "requestAnimationFrame", "cancelAnimationFrame",
		"requestIdleCallback", "cancelIdleCallback", "setTimeout",
		"clearTimeout", "setInterval", "clearInterval", "queueMicrotask",
		"createImageBitmap", "fetch", "btoa", "atob", "structuredClone",
		"dump", "find", "Components", "InstallTrigger", "content", "sidebar",
		"event", "globalThis", "Object", "Function", "Array", "Number",
		"parseFloat", "parseInt", "Infinity", "NaN", "undefined", "Boolean",
		"String", "Symbol", "Date", "Promise", "RegExp", "Error", "JSON",
		"Math", "Intl", "ArrayBuffer", "Map", "Set", "WeakMap", "WeakSet",
		"Proxy", "Reflect", "BigInt", "isFinite", "isNaN", "encodeURI",
		"encodeURIComponent", "decodeURI", "decodeURIComponent", "escape",
		"unescape", "eval",
	)
}
