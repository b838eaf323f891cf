// Package lang implements the RUNE configuration language: lexing,
// parsing, import gathering, reference and conditional resolution, and
// a typed query API over the resolved tree.
//
// # Philosophy
//
// RUNE is declarative data with a small amount of wiring, not a
// programming language. There are no user functions, no arithmetic,
// and no string interpolation. What it adds over inert data formats:
//
//   - References: bind a name once, point at it everywhere
//   - Imports: gather other files under an alias
//   - Conditionals: a single equality test selecting between values
//   - Patterns: regex literals compiled at resolution time
//
// Resolution is all-or-nothing. A RuneConfig either resolved
// completely or you get an error naming the first failure and where it
// happened; there are no partially usable results.
//
// # Grammar
//
// Informal EBNF:
//
//	Document  → (Metadata | Import | Global | Item | NL)* EOF
//	Metadata  → '@' Key String
//	Import    → 'gather' String ('as' Identifier)?
//	Global    → Key '='? Value
//	Item      → Key ':' Entry* 'end'
//	Entry     → Key '='? Value | Key ':' Entry* 'end' | IfBlock
//	IfBlock   → 'if' Cond ':' Entry* ('else' ':' Entry*)? 'endif'
//	Cond      → Operand '=' Operand
//	Operand   → Literal | Reference | '$env' '.' Name | '$sys' '.' Key
//	Value     → Literal | Reference | '$env' '.' Name | '$sys' '.' Key
//	          | '[' Value* ']' | 'if' Cond Value ('else' Value)?
//	Reference → Identifier ('.' Identifier)*
//	Literal   → String | RawString | Number | Boolean | 'null' | 'None'
//
// Newlines end statements; commas and newlines both separate array
// elements. '#' starts a line comment.
//
// # Example
//
//	gather "defaults.rune" as defaults
//	@description "media pipeline"
//
//	environment "production"
//	log_level if $env.DEBUG = "1" "debug" else "info"
//
//	app:
//	  name "transcoder"
//	  host defaults.server.host
//	  workers $sys.cpu_count
//	  media r"\.(mkv|mp4|avi)$"
//
//	  if environment = "production":
//	    replicas 4
//	  else:
//	    replicas 1
//	  endif
//	end
//
// # Scoping
//
// A bare identifier resolves against the already-bound siblings of its
// enclosing objects, innermost first, then the file's globals. Globals
// resolve lazily, so they may reference each other in any order as
// long as there is no cycle. A dotted path whose head is an import
// alias resolves inside the gathered file.
//
// Keys normalize to snake_case on store and lookup: monitor-media and
// monitor_media are the same key.
package lang
