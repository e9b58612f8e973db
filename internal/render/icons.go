package render

import "strings"

const (
	terrastruct = "https://icons.terrastruct.com"
	selfhst     = "https://cdn.jsdelivr.net/gh/selfhst/icons/svg"
)

type icon struct {
	key string
	url string
}

// icons is ordered so substring lookups resolve the same way every run.
// Longer keys come before keys they contain.
var icons = []icon{
	// Monitoring
	{"grafana", selfhst + "/grafana.svg"},
	{"prometheus", selfhst + "/prometheus.svg"},
	{"node-exporter", selfhst + "/prometheus.svg"},
	{"netdata", selfhst + "/netdata.svg"},
	{"uptime-kuma", selfhst + "/uptime-kuma.svg"},
	{"zabbix", selfhst + "/zabbix.svg"},

	// Management
	{"portainer", selfhst + "/portainer.svg"},
	{"cockpit", selfhst + "/cockpit.svg"},
	{"webmin", selfhst + "/webmin.svg"},

	// Conferencing
	{"bigbluebutton", selfhst + "/bigbluebutton.svg"},
	{"bbb", selfhst + "/bigbluebutton.svg"},
	{"jitsi", selfhst + "/jitsi-meet.svg"},

	// Documentation
	{"outline", selfhst + "/outline.svg"},
	{"bookstack", selfhst + "/bookstack.svg"},
	{"wiki", selfhst + "/wikijs.svg"},

	// Web / proxy
	{"nginx-proxy-manager", selfhst + "/nginx-proxy-manager.svg"},
	{"nginx", terrastruct + "/dev/nginx.svg"},
	{"traefik", selfhst + "/traefik.svg"},
	{"caddy", selfhst + "/caddy.svg"},
	{"apache", terrastruct + "/dev/apache.svg"},

	// Databases
	{"postgresql", terrastruct + "/dev/postgresql.svg"},
	{"postgres", terrastruct + "/dev/postgresql.svg"},
	{"mysql", terrastruct + "/dev/mysql.svg"},
	{"mariadb", selfhst + "/mariadb.svg"},
	{"redis", terrastruct + "/dev/redis.svg"},
	{"mongo", selfhst + "/mongodb.svg"},

	// Dev
	{"gitea", selfhst + "/gitea.svg"},
	{"gitlab", selfhst + "/gitlab.svg"},
	{"jenkins", selfhst + "/jenkins.svg"},

	// Security
	{"vaultwarden", selfhst + "/vaultwarden.svg"},
	{"keycloak", selfhst + "/keycloak.svg"},

	// Host
	{"ssh", terrastruct + "/essentials/092-network.svg"},
	{"docker", terrastruct + "/dev/docker.svg"},
	{"lxd", selfhst + "/linux-containers.svg"},
	{"linux", terrastruct + "/dev/linux.svg"},
}

// LookupIcon returns the icon URL for a service name or image: exact name
// first, then image substrings, then name substrings.
func LookupIcon(name, image string) string {
	nameLower := strings.ToLower(name)
	for _, ic := range icons {
		if nameLower == ic.key {
			return ic.url
		}
	}
	if imgLower := strings.ToLower(image); imgLower != "" {
		for _, ic := range icons {
			if strings.Contains(imgLower, ic.key) {
				return ic.url
			}
		}
	}
	for _, ic := range icons {
		if strings.Contains(nameLower, ic.key) {
			return ic.url
		}
	}
	return ""
}
