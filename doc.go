// Package relay provides A2A-native agent discovery, capability-based query
// routing, and dispatch.
//
// Relay sits in front of a set of independently addressable A2A agents. At
// startup it loads a static registry of agent names and base URLs, fetches
// each agent's capability card from its well-known discovery path, and keeps
// the results in an immutable in-memory snapshot. Incoming free-text queries
// are routed to exactly one agent, by an LLM when one is configured and by a
// deterministic keyword fallback otherwise, then forwarded over the A2A
// HTTP+JSON transport.
//
// # Quick start
//
// Create a configuration file:
//
//	agents:
//	  - name: greeting_agent
//	    url: http://localhost:10001
//	  - name: time_agent
//	    url: http://localhost:10002
//	llm:
//	  provider: openai
//	  api_key: ${OPENAI_API_KEY}
//
// Then serve it:
//
//	relay serve --config relay.yaml
//
// or route a single query from the command line:
//
//	relay query --config relay.yaml "What time is it?"
//
// See the pkg subdirectories for the embeddable pieces: registry (discovery
// snapshots), index (keyword matching), router (agent selection), and
// dispatch (query forwarding).
package relay
