// Package tracker assembles the client-side tracking script served to
// embedding sites.
package tracker

import (
	"fmt"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

const sessionSnippet = `
  const getSessionId = () => {
    const sessionKey = "webstat_session";
    let sessionId = localStorage.getItem(sessionKey);
    if (!sessionId) {
      sessionId = "ws-" + Math.random().toString(36).substr(2, 9);
      localStorage.setItem(sessionKey, sessionId);
    }
    return sessionId;
  };
`

const deviceSnippet = `
  const getDeviceInfo = () => ({
    userAgent: navigator.userAgent,
    platform: navigator.platform,
    language: navigator.language,
  });
`

const behaviorSnippet = `
  document.addEventListener("click", (event) => {
    const target = event.target;
    const clickData = {
      tagName: target.tagName,
      id: target.id || null,
      classes: target.className || null,
      text: target.innerText ? target.innerText.slice(0, 50) : null,
    };
    sendAnalytics("click", clickData);
  });

  let maxScrollDepth = 0;
  let scrollTimeout;
  const handleScroll = () => {
    const scrollDepth =
      (window.scrollY + window.innerHeight) / document.body.scrollHeight;
    maxScrollDepth = Math.max(maxScrollDepth, scrollDepth);
    if (scrollTimeout) clearTimeout(scrollTimeout);
    scrollTimeout = setTimeout(() => {
      sendAnalytics("scroll", { maxScrollDepth });
    }, 200);
  };
  window.addEventListener("scroll", handleScroll);

  document.addEventListener("submit", (event) => {
    const form = event.target;
    sendAnalytics("form_submission", {
      action: form.action || null,
      method: form.method || null,
    });
  });

  const pageStartTime = Date.now();
  window.addEventListener("beforeunload", () => {
    const timeSpent = Math.round((Date.now() - pageStartTime) / 1000);
    sendAnalytics("time_on_page", { seconds: timeSpent, maxScrollDepth });
  });
`

// sendSnippet builds the sendAnalytics function posting payloads to
// trackingURL.
func sendSnippet(trackingURL string) string {
	return fmt.Sprintf(`
  const sendAnalytics = async (eventType, additionalData = {}) => {
    try {
      const payload = {
        eventType,
        page: window.location.pathname,
        referrer: document.referrer,
        timestamp: new Date().toISOString(),
        sessionId,
        deviceInfo: getDeviceInfo(),
        url: window.location.origin,
        additionalData
      };
      await fetch(%q, {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify(payload),
      });
    } catch (error) {
      console.error("Analytics tracking error:", error);
    }
  };
`, trackingURL)
}

// Build assembles and minifies the full tracking script. The script reports a
// pageview on load, a leave event on unload, and click/scroll/form/duration
// events in between.
func Build(trackingURL string) (string, error) {
	var b strings.Builder
	b.WriteString("(function () {\n")
	b.WriteString(sessionSnippet)
	b.WriteString(deviceSnippet)
	b.WriteString("  const sessionId = getSessionId();\n")
	b.WriteString(sendSnippet(trackingURL))
	b.WriteString(behaviorSnippet)
	b.WriteString(`
  sendAnalytics("pageview");
  window.addEventListener("beforeunload", () => {
    sendAnalytics("leave");
  });
})();
`)

	m := minify.New()
	m.AddFunc("application/javascript", js.Minify)
	minified, err := m.String("application/javascript", b.String())
	if err != nil {
		return "", fmt.Errorf("failed to minify tracking script: %w", err)
	}
	return minified, nil
}
