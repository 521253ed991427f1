package checker

import (
	"testing"

	"pureproxy/internal/config"
	"pureproxy/internal/domain"
)

func TestAcceptRejectsReservedRanges(t *testing.T) {
	rejected := []string{
		"10.0.0.1",
		"127.0.0.1",
		"0.1.2.3",
		"100.64.0.1",
		"169.254.10.10",
		"172.16.0.1",
		"172.31.255.255",
		"192.168.1.1",
		"224.0.0.1",
		"255.255.255.255",
	}
	for _, ip := range rejected {
		if Accept(domain.Candidate{IP: ip, Port: 443}, nil) {
			t.Errorf("Accept(%s) = true, want false", ip)
		}
	}
}

func TestAcceptAllowsPublicAddresses(t *testing.T) {
	accepted := []string{
		"93.184.216.34",
		"8.8.8.8",
		"172.32.0.1",
		"100.128.0.1",
	}
	for _, ip := range accepted {
		if !Accept(domain.Candidate{IP: ip, Port: 443}, nil) {
			t.Errorf("Accept(%s) = false, want true", ip)
		}
	}
}

func TestAcceptRejectsExcludedNetworks(t *testing.T) {
	cidr, err := config.ParseCIDR("104.16.0.0/13")
	if err != nil {
		t.Fatalf("parse cidr: %v", err)
	}
	excluded := []config.CIDR{cidr}

	if Accept(domain.Candidate{IP: "104.16.0.1", Port: 443}, excluded) {
		t.Error("address inside excluded network was accepted")
	}
	if Accept(domain.Candidate{IP: "104.23.255.254", Port: 443}, excluded) {
		t.Error("address at excluded network edge was accepted")
	}
	if !Accept(domain.Candidate{IP: "104.24.0.1", Port: 443}, excluded) {
		t.Error("address just outside excluded network was rejected")
	}
}

func TestAcceptRejectsMalformedAddresses(t *testing.T) {
	for _, ip := range []string{"", "1.2.3", "1.2.3.4.5", "a.b.c.d", "1.2.3.400"} {
		if Accept(domain.Candidate{IP: ip, Port: 443}, nil) {
			t.Errorf("Accept(%q) = true, want false", ip)
		}
	}
}
