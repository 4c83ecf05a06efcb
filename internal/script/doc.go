// Package script runs the user's Lua init script.
//
// The script executes in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, and the functions that load code
// from disk are removed. A global "ripple" table exposes the editor API:
//
//	ripple.bind("ctrl+u", "undo")      -- bind a chord to an action
//	ripple.unbind("ctrl+z")            -- remove a binding
//	ripple.on("save", function(path)   -- run after every successful save
//	  ripple.status("saved " .. path)
//	end)
//	ripple.on("disk_change", function(path) end)
//	ripple.log("hello")                -- write to the editor log
//
// Runtime is not safe for concurrent use. The application calls it from its
// event loop only.
package script
