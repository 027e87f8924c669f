//go:build windows

package rules

import "golang.org/x/sys/windows/registry"

func init() {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return
	}
	defer k.Close()

	major, _, err := k.GetIntegerValue("CurrentMajorVersionNumber")
	if err != nil {
		return
	}
	minor, _, _ := k.GetIntegerValue("CurrentMinorVersionNumber")
	osVersionOverride = itoa(int(major)) + "." + itoa(int(minor))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
