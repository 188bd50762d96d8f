package sync

import "strings"

// clientIDPrefix marks archived filenames that already carry a client id:
// CLIENTID_<id>_<original name>.
const clientIDPrefix = "CLIENTID_"

// AddClientID prefixes a filename with the client id unless the name
// already carries one, in any of the separator spellings partners have
// produced.
func AddClientID(filename, clientID string) string {
	upper := strings.ToUpper(filename)
	for _, sep := range []string{"_", "-", " "} {
		if strings.Contains(upper, clientIDPrefix+strings.ToUpper(clientID)+sep) {
			return filename
		}
	}
	return clientIDPrefix + clientID + "_" + filename
}

// ExtractClientID returns the client id embedded in a filename, or "" when
// the name carries none.
func ExtractClientID(filename string) string {
	if !strings.HasPrefix(strings.ToUpper(filename), clientIDPrefix) {
		return ""
	}
	parts := strings.SplitN(filename, "_", 3)
	if len(parts) < 2 {
		return ""
	}
	return strings.ToUpper(parts[1])
}
