package sim

import (
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// descriptorXML is the device descriptor the board publishes. The
// control endpoint leads the controlURL text so inventory tools can
// take it straight from the tag.
const descriptorXML = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:GigExpedite:1</deviceType>
    <friendlyName>GigExpedite %d</friendlyName>
    <manufacturer>Orange Tree Technologies</manufacturer>
    <serialNumber>%d</serialNumber>
    <controlURL>%s:%d/control</controlURL>
  </device>
</root>
`

// DescriptorURL returns the URL the board advertises for its
// descriptor.
func (b *Board) DescriptorURL() string {
	return fmt.Sprintf("http://%s:%d/desc.xml", b.advertisedIP(), b.httpPort)
}

func (b *Board) startDescriptor() error {
	addr := b.cfg.HTTPAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		return fmt.Errorf("descriptor listen: %w", err)
	}
	b.httpPort = uint16(ln.Addr().(*net.TCPAddr).Port)

	r := chi.NewRouter()
	r.Get("/desc.xml", b.serveDescriptor)

	b.httpSrv = &http.Server{Handler: r}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.httpSrv.Serve(ln)
	}()
	return nil
}

func (b *Board) serveDescriptor(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	fmt.Fprintf(w, descriptorXML, b.serial, b.serial, b.advertisedIP(), b.control.Port())
}
