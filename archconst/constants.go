// Package archconst centralizes the process-wide constants the rule
// engine depends on: the traversal depth cap and the closed sink/marker
// sets named throughout spec.md §9 ("Process-wide constants"). Rule
// definitions loaded from disk must never be able to override MaxDepth —
// see ruleset.Load.
package archconst

// MaxDepth bounds every graph traversal (BFS reachability and DFS chain
// enumeration alike). Crossing it truncates the branch with a warning,
// never an error.
const MaxDepth = 100

// Stereotype marker simple names recognized by the evaluator catalogue.
// Matched by annotation simple name only, never by FQN, since spec.md §4.1
// resolves annotation FQNs best-effort and several ecosystems spell the
// same marker under different packages.
const (
	MarkerTransactional  = "Transactional"
	MarkerAsync          = "Async"
	MarkerRetryable      = "Retryable"
	MarkerScheduled      = "Scheduled"
	MarkerCircuitBreaker = "CircuitBreaker"
	MarkerIdempotent     = "Idempotent"
)

// ResilienceMarkers is the set of markers that satisfy the "has a
// resilience marker" condition in the scheduled-job-resiliency evaluator
// (spec.md §4.5.7).
var ResilienceMarkers = []string{MarkerRetryable, MarkerCircuitBreaker}

// RemoteSinkTypeFQNs is the closed set of network-client type FQNs the
// transaction-boundary evaluator (§4.5.2) treats as a remote sink: any
// resolved callee FQN beginning with one of these entries followed by "#"
// is a remote call.
var RemoteSinkTypeFQNs = []string{
	"net.HttpClient",
	"okhttp3.OkHttpClient",
	"org.springframework.web.client.RestTemplate",
	"org.springframework.web.reactive.function.client.WebClient",
	"feign.Feign",
	"retrofit2.Retrofit",
	"java.net.http.HttpClient",
	"grpc.ManagedChannel",
}

// DatabaseTemplateTypeFQNs is the closed set of database-access type FQNs
// the duplicate-same-table-update evaluator (§4.5.10) recognizes as a
// receiver whose update/insert methods are worth tracking.
var DatabaseTemplateTypeFQNs = []string{
	"org.springframework.jdbc.core.JdbcTemplate",
	"org.springframework.data.jpa.repository.JpaRepository",
	"javax.persistence.EntityManager",
	"jakarta.persistence.EntityManager",
	"db.SQLTemplate",
}

// NonIdempotentSinkTypeFQNs is the closed set of type FQNs the
// retry-idempotency evaluator (§4.5.5) treats as non-idempotent when
// their send/charge/notify-shaped methods are reached from a retryable
// entry point.
var NonIdempotentSinkTypeFQNs = []string{
	"javax.mail.Transport",
	"jakarta.mail.Transport",
	"org.springframework.mail.MailSender",
	"stripe.PaymentIntent",
	"com.braintreegateway.BraintreeGateway",
	"org.apache.kafka.clients.producer.KafkaProducer",
	"com.twilio.rest.api.v2010.account.Message",
}

// NonIdempotentMethodNamePatterns is a configured regex list matched
// against a reachable method's simple name; any match is treated as a
// non-idempotent sink regardless of receiver type.
var NonIdempotentMethodNamePatterns = []string{
	`.*Service.*[Ss]end.*`,
	`^(charge|notify|publish)[A-Z].*`,
}

// NonIdempotentSinkMethodNamePattern is the send/charge/notify-shaped
// method-name test paired with NonIdempotentSinkTypeFQNs. Spec.md §4.5.5(a)
// flags a call only when BOTH the receiver is a known non-idempotent type
// AND the invoked method itself looks like a send/charge/notify operation —
// a getter or other read-only method on a MailSender, say, is not a
// duplicate-send risk just because of its receiver's type.
const NonIdempotentSinkMethodNamePattern = `(?i)^(send|charge|notify|publish|deliver)`
