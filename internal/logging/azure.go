package logging

import (
	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// BridgeAzureSDK forwards Azure SDK diagnostics to l at debug level. It is a
// no-op unless debug output is enabled. The returned func detaches the
// listener.
func BridgeAzureSDK(l *Logger) func() {
	if !l.DebugEnabled() {
		return func() {}
	}

	azlog.SetEvents(azlog.EventRequest, azlog.EventResponse, azidentity.EventAuthentication)
	azlog.SetListener(func(event azlog.Event, msg string) {
		l.Debug("azure %s: %s", event, msg)
	})

	return func() {
		azlog.SetListener(nil)
	}
}
