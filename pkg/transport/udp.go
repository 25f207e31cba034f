package transport

import (
	"fmt"
	"log"
	"net"
	"sync"
)

// DefaultMulticastGroup is the IPv4 link-local multicast group used when a
// node's configuration does not override it.
const DefaultMulticastGroup = "239.0.42.1:7654"

// UDPTransport broadcasts over an IPv4 UDP multicast group bound to a single
// network interface, the real-network analogue of the original platform's
// single-hop link-local broadcast (there, IPv6 multicast to ff02::1). Every
// node on the same subnet joining the same group and port sees every other
// node's datagrams, with no ordering or delivery guarantee — exactly the
// contract the core is written against.
type UDPTransport struct {
	group *net.UDPAddr
	send  *net.UDPConn
	recv  *net.UDPConn

	mu      sync.RWMutex
	receive ReceiveFunc
	closed  bool
	wg      sync.WaitGroup
}

// NewUDPTransport joins the multicast group at addr (host:port) on the
// named interface (empty iface lets the kernel pick) and starts listening
// for inbound datagrams.
func NewUDPTransport(addr, iface string) (*UDPTransport, error) {
	group, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve multicast address %q: %w", addr, err)
	}

	var ifi *net.Interface
	if iface != "" {
		ifi, err = net.InterfaceByName(iface)
		if err != nil {
			return nil, fmt.Errorf("transport: lookup interface %q: %w", iface, err)
		}
	}

	recv, err := net.ListenMulticastUDP("udp4", ifi, group)
	if err != nil {
		return nil, fmt.Errorf("transport: join multicast group %s: %w", addr, err)
	}

	send, err := net.DialUDP("udp4", nil, group)
	if err != nil {
		recv.Close()
		return nil, fmt.Errorf("transport: dial multicast group %s: %w", addr, err)
	}

	t := &UDPTransport{group: group, send: send, recv: recv}
	t.wg.Add(1)
	go t.readLoop()
	return t, nil
}

func (t *UDPTransport) readLoop() {
	defer t.wg.Done()
	buf := make([]byte, 1500)
	for {
		n, src, err := t.recv.ReadFromUDP(buf)
		if err != nil {
			t.mu.RLock()
			closed := t.closed
			t.mu.RUnlock()
			if closed {
				return
			}
			log.Printf("transport: udp read error: %v", err)
			continue
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		t.mu.RLock()
		fn := t.receive
		t.mu.RUnlock()
		if fn != nil {
			fn(payload, src.String())
		}
	}
}

func (t *UDPTransport) Send(payload []byte) error {
	_, err := t.send.Write(payload)
	return err
}

func (t *UDPTransport) SetReceiveHandler(fn ReceiveFunc) {
	t.mu.Lock()
	t.receive = fn
	t.mu.Unlock()
}

func (t *UDPTransport) LocalAddr() string {
	return t.send.LocalAddr().String()
}

func (t *UDPTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	sendErr := t.send.Close()
	recvErr := t.recv.Close()
	t.wg.Wait()

	if sendErr != nil {
		return sendErr
	}
	return recvErr
}
