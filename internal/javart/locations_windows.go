//go:build windows

package javart

import (
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

// registryRoots are the vendor-specific registry key prefixes enumerated
// by find_java.rs::find_java_installations: Eclipse Adoptium,
// AdoptOpenJDK, Eclipse Foundation, JavaSoft, Microsoft JDK, Azul Zulu,
// and BellSoft Liberica.
var registryRoots = []string{
	`SOFTWARE\Eclipse Adoptium\JDK`,
	`SOFTWARE\Eclipse Adoptium\JRE`,
	`SOFTWARE\AdoptOpenJDK\JDK`,
	`SOFTWARE\AdoptOpenJDK\JRE`,
	`SOFTWARE\Eclipse Foundation\JDK`,
	`SOFTWARE\JavaSoft\JDK`,
	`SOFTWARE\JavaSoft\JRE`,
	`SOFTWARE\Microsoft\JDK`,
	`SOFTWARE\Azul Systems\Zulu`,
	`SOFTWARE\BellSoft\Liberica`,
}

func platformLocations() []string {
	var out []string
	for _, root := range registryRoots {
		out = append(out, scanRegistryRoot(registry.LOCAL_MACHINE, root)...)
	}
	return out
}

func scanRegistryRoot(hive registry.Key, root string) []string {
	k, err := registry.OpenKey(hive, root, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil
	}

	var out []string
	for _, name := range names {
		versionKey, err := registry.OpenKey(hive, root+`\`+name+`\hotspot\MSI`, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		path, _, err := versionKey.GetStringValue("Path")
		versionKey.Close()
		if err != nil || path == "" {
			continue
		}
		out = append(out, filepath.Join(path, "bin", "java.exe"))
	}
	return out
}
