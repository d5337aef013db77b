package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe    = "\uf0ac" // browser/web
	IconVersion  = "\uf02b" // tag
	IconCalendar = "\uf073" // calendar
	IconGo       = "\ue627" // go gopher
	IconArrow    = "\uf061" // arrow right

	IconCheck    = "\uf00c" // check
	IconWarning  = "\uf071" // warning
	IconInfo     = "\uf05a" // info
	IconTrash    = "\uf1f8" // trash
	IconConfig   = "\ue615" // config
	IconDatabase = "\uf1c0" // database

	// Browser chrome
	IconCursor  = "\uf054" // chevron-right
	IconTab     = "\uf0ce" // table
	IconClock   = "\uf017" // clock
	IconBack    = "\uf053" // chevron-left
	IconReload  = "\uf021" // refresh
	IconMobile  = "\uf10b" // mobile
	IconDesktop = "\uf108" // desktop
	IconLock    = "\uf023" // lock
	IconPlus    = "\uf067" // plus
)
