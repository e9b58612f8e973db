// Package locale holds the user-facing strings of node labels, tooltips and
// the detail view.
package locale

import "sort"

// Catalog is one language's set of messages. Fields ending in "F" are
// fmt format strings.
type Catalog struct {
	Code string

	HostServer  string
	Running     string
	Stopped     string
	Application string
	Service     string
	Container   string

	ContainerLabelF       string // container name
	ContainerTitleF       string // container name
	ContainerType         string
	ContainerDescriptionF string // container name, member count

	Name           string
	Type           string
	Status         string
	URL            string
	Port           string
	Protocol       string
	InternalIP     string
	HostIP         string
	Image          string
	PortMappings   string
	Category       string
	Description    string
	InternalAccess string
	InternalOnly   string
	Routing        string
	LXDProxy       string
	PortMapping    string
	ActiveDomains  string
	PlannedDomains string
	Domains        string
	Scheduled      string
	Diagnostics    string
	Note           string

	URLAvailable       string
	URLUnavailable     string
	URLNotChecked      string
	URLRecommended     string
	URLRecommendedIdle string
	HTTPCodeF          string // status code
	ResponseTimeF      string // milliseconds
	ErrorF             string // error text
	HTTPStatusF        string // status code
	InfoF              string // info text
	FirewallNATF       string // nat type, destination
	ProxyDeviceF       string // external port, internal port
	ProxyListenF       string // listen
	ProxyConnectF      string // connect
	ProxyRouteF        string // listen port, connect port
	NoDiagnostics      string
	Run                string
	Launching          string
	Launched           string
	LaunchedF          string // label, pid
	LaunchFailedF      string // error
	UnknownError       string
	StatsF             string // total, running, docker, lxd, host
	DefaultTestLabel   string
	SelectionCleared   string
}

var catalogs = map[string]*Catalog{
	"en": {
		Code:        "en",
		HostServer:  "Host server",
		Running:     "Running",
		Stopped:     "Stopped",
		Application: "Application",
		Service:     "Service",
		Container:   "Container",

		ContainerLabelF:       "LXD: %s",
		ContainerTitleF:       "LXD container: %s",
		ContainerType:         "LXD container",
		ContainerDescriptionF: "LXD container: %s. Contains %d application(s)",

		Name:           "Name",
		Type:           "Type",
		Status:         "Status",
		URL:            "URL",
		Port:           "Port",
		Protocol:       "Protocol",
		InternalIP:     "Internal IP",
		HostIP:         "Host IP",
		Image:          "Docker image",
		PortMappings:   "Published ports",
		Category:       "Category",
		Description:    "Description",
		InternalAccess: "⚠️ Internal access",
		InternalOnly:   "Reachable only inside the container",
		Routing:        "🔀 Routing",
		LXDProxy:       "🔀 LXD Proxy",
		PortMapping:    "🔀 Port Mapping",
		ActiveDomains:  "🌐 Domains (active)",
		PlannedDomains: "⏳ Domains (planned)",
		Domains:        "🌐 Domains",
		Scheduled:      "⏳ Planned",
		Diagnostics:    "🔍 Testing",
		Note:           "ℹ️ Note",

		URLAvailable:       "✅ Available",
		URLUnavailable:     "❌ Unavailable",
		URLNotChecked:      "⚠️ Not checked",
		URLRecommended:     "(recommended)",
		URLRecommendedIdle: "(recommended, inactive)",
		HTTPCodeF:          "(HTTP %d)",
		ResponseTimeF:      "⏱ Response time: %s ms",
		ErrorF:             "⚠️ Error: %s",
		HTTPStatusF:        "HTTP status: %d",
		InfoF:              "ℹ️ %s",
		FirewallNATF:       "Firewall NAT: %s → %s",
		ProxyDeviceF:       "LXD Proxy: port %s → %s",
		ProxyListenF:       "Listen: %s",
		ProxyConnectF:      "Connect: %s",
		ProxyRouteF:        "✓ Proxy route: %s → %s",
		NoDiagnostics:      "No diagnostics available",
		Run:                "▶ Run",
		Launching:          "⏳ Launching...",
		Launched:           "✅ Launched",
		LaunchedF:          "Test %q launched (PID %s)",
		LaunchFailedF:      "Failed to launch test: %s",
		UnknownError:       "unknown error",
		StatsF:             "Total: %d | Running: %d | Docker: %d | LXD: %d | Host: %d",
		DefaultTestLabel:   "Test",
		SelectionCleared:   "Selection cleared",
	},
	"ru": {
		Code:        "ru",
		HostServer:  "Хост-сервер",
		Running:     "Работает",
		Stopped:     "Остановлен",
		Application: "Приложение",
		Service:     "Сервис",
		Container:   "Контейнер",

		ContainerLabelF:       "LXD: %s",
		ContainerTitleF:       "LXD контейнер: %s",
		ContainerType:         "LXD контейнер",
		ContainerDescriptionF: "LXD контейнер: %s. Внутри %d приложение(й)",

		Name:           "Название",
		Type:           "Тип",
		Status:         "Статус",
		URL:            "URL",
		Port:           "Порт",
		Protocol:       "Протокол",
		InternalIP:     "Внутренний IP",
		HostIP:         "IP хоста",
		Image:          "Docker образ",
		PortMappings:   "Проброшенные порты",
		Category:       "Категория",
		Description:    "Описание",
		InternalAccess: "⚠️ Внутренний доступ",
		InternalOnly:   "Доступен только внутри контейнера",
		Routing:        "🔀 Маршрутизация",
		LXDProxy:       "🔀 LXD Proxy",
		PortMapping:    "🔀 Port Mapping",
		ActiveDomains:  "🌐 Домены (активные)",
		PlannedDomains: "⏳ Домены (запланированные)",
		Domains:        "🌐 Домены",
		Scheduled:      "⏳ Запланировано",
		Diagnostics:    "🔍 Тестирование",
		Note:           "ℹ️ Примечание",

		URLAvailable:       "✅ Доступен",
		URLUnavailable:     "❌ Недоступен",
		URLNotChecked:      "⚠️ Не проверен",
		URLRecommended:     "(рекомендуемый)",
		URLRecommendedIdle: "(рекомендуемый, не активный)",
		HTTPCodeF:          "(HTTP %d)",
		ResponseTimeF:      "⏱ Время отклика: %s мс",
		ErrorF:             "⚠️ Ошибка: %s",
		HTTPStatusF:        "HTTP статус: %d",
		InfoF:              "ℹ️ %s",
		FirewallNATF:       "Firewall NAT: %s → %s",
		ProxyDeviceF:       "LXD Proxy: порт %s → %s",
		ProxyListenF:       "Listen: %s",
		ProxyConnectF:      "Connect: %s",
		ProxyRouteF:        "✓ Proxy маршрут: %s → %s",
		NoDiagnostics:      "Тесты недоступны",
		Run:                "▶ Запустить",
		Launching:          "⏳ Запуск...",
		Launched:           "✅ Запущен",
		LaunchedF:          "Тест %q успешно запущен (PID %s)",
		LaunchFailedF:      "Ошибка запуска теста: %s",
		UnknownError:       "неизвестная ошибка",
		StatsF:             "Всего: %d | Запущено: %d | Docker: %d | LXD: %d | Хост: %d",
		DefaultTestLabel:   "Тест",
		SelectionCleared:   "Выбор снят",
	},
}

// Get returns the catalog for code, falling back to English.
func Get(code string) *Catalog {
	if c, ok := catalogs[code]; ok {
		return c
	}
	return catalogs["en"]
}

// Codes lists the available locales.
func Codes() []string {
	codes := make([]string, 0, len(catalogs))
	for c := range catalogs {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// StatusText returns the icon and word for a run state.
func (c *Catalog) StatusText(running bool) string {
	if running {
		return "✅ " + c.Running
	}
	return "⏸ " + c.Stopped
}
