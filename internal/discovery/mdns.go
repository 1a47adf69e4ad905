// ABOUTME: mDNS discovery of the conductor message bus
// ABOUTME: Browses for NATS servers on the local network and advertises the viewer
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/hashicorp/mdns"
)

// browseTimeout bounds each mDNS query round.
const browseTimeout = 3 * time.Second

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
}

// Manager handles mDNS operations
type Manager struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
	buses  chan *BusInfo
}

// BusInfo describes a discovered message bus
type BusInfo struct {
	Name string
	Host string
	Port int
}

// URL returns the bus endpoint in nats:// form.
func (b *BusInfo) URL() string {
	return fmt.Sprintf("nats://%s:%d", b.Host, b.Port)
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config: config,
		ctx:    ctx,
		cancel: cancel,
		buses:  make(chan *BusInfo, 10),
	}
}

// Advertise advertises this viewer via mDNS
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		"_tickview._tcp",
		"",
		"",
		m.config.Port,
		ips,
		[]string{"role=viewer"},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d", m.config.ServiceName, m.config.Port)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Browse searches for NATS servers advertised on the local network
func (m *Manager) Browse() error {
	go m.browseLoop()
	return nil
}

// browseLoop continuously browses for buses
func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				if entry.AddrV4 == nil {
					continue
				}

				bus := &BusInfo{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}

				log.Printf("Discovered bus: %s at %s:%d", bus.Name, bus.Host, bus.Port)

				select {
				case m.buses <- bus:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		mdns.Query(queryParams(entries))
		close(entries)
	}
}

// queryParams builds one browse round for NATS servers on the local network
func queryParams(entries chan *mdns.ServiceEntry) *mdns.QueryParam {
	return &mdns.QueryParam{
		Service: "_nats._tcp",
		Domain:  "local",
		Timeout: browseTimeout,
		Entries: entries,
	}
}

// Buses returns the channel of discovered buses
func (m *Manager) Buses() <-chan *BusInfo {
	return m.buses
}

// Stop stops the discovery manager
func (m *Manager) Stop() {
	m.cancel()
}

// getLocalIPs returns local IP addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
