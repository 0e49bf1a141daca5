package internal

// MatcherHelp is the operator-facing description of the matcher query
// syntax, shown by "waytrace matchers" and the interactive "help" verb.
const MatcherHelp = `Matcher expressions select protocol messages.

Atoms:
  wl_surface            every message on wl_surface objects
  wl_surface.commit     only commit messages on wl_surface objects
  wl_surface@7          every message on object 7, if it is a wl_surface
  @7  (or just 7)       every message on object 7, whatever its interface
  *                     every message on every object
  *.commit              commit messages on any interface
  always / never        match everything / match nothing

Operators, loosest to tightest binding:
  a | b   (or "a or b")    either side matches
  a & b   (or "a and b")   both sides match
  !a      (or "not a")     a does not match
  ( ... )                  grouping

Examples:
  wl_pointer | wl_keyboard        all input device messages
  wl_surface & !wl_surface.frame  surface traffic except frame callbacks
  !(wl_display.sync | wl_display.get_registry)

Objects whose interface is still unknown (shown as "?") only match the
wildcard; a negated interface atom therefore matches them.`
