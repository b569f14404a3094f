package prompts

// System role definitions
const (
	// CommitWriterRole fixes the output format contract for the model
	CommitWriterRole = "You are a helpful assistant that generates commit messages in the Conventional Commits format."
)

// CommitTypes is the canonical set of header types accepted in a commit message
var CommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor", "perf", "test", "build", "ci", "chore", "revert",
}

// Example messages shown to the model
const (
	exampleFeature = "```" + `
feat(config): load provider settings from toml
- Added a koanf loader that layers defaults, the config file and the environment.
- Moved provider base URLs and model names into the [llm.<provider>] tables.
- Documented the LLM_PROVIDER variable in the sample configuration.

These changes let operators switch providers without rebuilding the binary.
` + "```"

	exampleBreaking = "```" + `
feat(transport)!: serve sse messages on /messages
- Moved the message endpoint from ` + "`/rpc`" + ` to ` + "`/messages`" + `.
- Announced the session URL in the first event of the stream.

BREAKING CHANGE: Clients posting to ` + "`/rpc`" + ` must read the endpoint event and post to ` + "`/messages`" + `.
` + "```"

	exampleNested = "```" + `
fix(stream): stop relay after upstream closes
- Return io.EOF once the completion stream channel is closed.
- Reworked the fragment relay:
  - Dropped empty deltas instead of forwarding them.
  - Surfaced provider errors from Recv instead of logging them.
- Added tests for ordering and early close.

Closes #42
` + "```"
)

// Commit message rules
const (
	// CommitOverview describes the overall message shape
	CommitOverview = `# Overview

Each commit message must follow a structured format and stay succinct and clear. A message has three parts: a header, a body and a footer. The header is mandatory, entirely lowercase and must match ` + "`type(scope): subject`" + `. The body is separated from the header by one blank line and every body line starts with a capital letter. The footer holds breaking changes and issue references.`

	// HeaderRules constrains the first line
	HeaderRules = `## Header

The header is a single line summarizing the change.
- The type must be one of: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert.
- The scope is optional and is a noun naming the area of the codebase affected.
- The subject uses the imperative, present tense ("change" not "changed" nor "changes").
- Do not capitalize the first letter of the subject.
- Do not end the subject with a period.`

	// BodyRules constrains the optional body
	BodyRules = `## Body

The body is optional but recommended. Use the imperative, present tense. Explain the motivation for the change and contrast it with the previous behavior. Start each line with a capital letter.`

	// FooterRules constrains the footer
	FooterRules = `## Footer

The footer carries information about breaking changes and references the issues this commit closes. A breaking change starts with ` + "`BREAKING CHANGE:`" + ` followed by a space or two newlines; the rest of the footer describes it. Start with a capital letter.`
)

// CommitUserTemplate is the user prompt. {{VAR:diff}} is replaced by the raw diff.
const CommitUserTemplate = `Generate an English commit message that meets the requirements of commitizen for the git diff below.

# Examples

` + exampleFeature + `

------

` + exampleBreaking + `

------

` + exampleNested + `

` + CommitOverview + `

` + HeaderRules + `

` + BodyRules + `

` + FooterRules + `

Diff:
` + "```" + `
{{VAR:diff}}
` + "```" + `
`

// Default is the compiled-in commit message template
var Default = Template{
	System: CommitWriterRole,
	User:   CommitUserTemplate,
}
