package catalog

import "kvshift/internal/models"

// builtinSignatures defines the usage idioms recognized for the supported
// source dialects and the conversion recipes that rewrite them toward
// valkey-glide. Expressions are scanned per line; step targets are literal
// strings replaced across the whole text.
func builtinSignatures() []Signature {
	return []Signature{
		connectionSignature(),
		pipelineSignature(),
		transactionSignature(),
		clusterSignature(),
		pubsubSignature(),
		streamingSignature(),
	}
}

func connectionSignature() Signature {
	return Signature{
		Type: models.PatternConnection,
		Expressions: map[models.Dialect][]string{
			models.DialectIoredis: {
				`new\s+Redis\s*\(`,
				`require\(['"]ioredis['"]\)`,
				`from\s+['"]ioredis['"]`,
			},
			models.DialectNodeRedis: {
				`createClient\s*\(`,
				`\.connect\s*\(\s*\)`,
				`require\(['"]redis['"]\)`,
				`from\s+['"]redis['"]`,
			},
		},
		ContextKeywords: []string{"redis", "client", "connect", "host", "port"},
		Complexity:      models.ComplexitySimple,
		Requirements: []models.MigrationRequirement{
			{Severity: models.SeverityMedium, Description: "glide clients are created through an async factory; constructor call sites must become awaitable"},
			{Severity: models.SeverityLow, Description: "connection options use addresses: [{host, port}] instead of positional arguments"},
		},
		Strategies: []models.ConversionStrategy{
			{
				Name:        "connection-conversion",
				Description: "Rewrite ioredis client construction to the GlideClient factory",
				AppliesTo:   []models.Dialect{models.DialectIoredis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionReplace, Target: `require('ioredis')`, NewCode: `require('@valkey/valkey-glide')`, Rationale: "swap the package import"},
					{Order: 2, Action: models.ActionReplace, Target: `from 'ioredis'`, NewCode: `from '@valkey/valkey-glide'`, Rationale: "swap the ES module import"},
					{Order: 3, Action: models.ActionReplace, Target: `new Redis(`, NewCode: `await GlideClient.createClient(`, Rationale: "glide has no public constructor; clients come from an async factory"},
				},
				Risks: []string{"client creation becomes asynchronous and must be awaited"},
				ValidationTests: []string{
					"verify the client connects with the translated options",
					"verify connection errors reject the factory promise",
				},
			},
			{
				Name:        "client-factory-conversion",
				Description: "Rewrite node-redis createClient/connect to the GlideClient factory",
				AppliesTo:   []models.Dialect{models.DialectNodeRedis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionReplace, Target: `require('redis')`, NewCode: `require('@valkey/valkey-glide')`, Rationale: "swap the package import"},
					{Order: 2, Action: models.ActionReplace, Target: `from 'redis'`, NewCode: `from '@valkey/valkey-glide'`, Rationale: "swap the ES module import"},
					{Order: 3, Action: models.ActionReplace, Target: `createClient(`, NewCode: `await GlideClient.createClient(`, Rationale: "the glide factory both builds and connects the client"},
					{Order: 4, Action: models.ActionRemove, Target: `await client.connect();`, NewCode: ``, Rationale: "the factory connects eagerly; a separate connect call is redundant"},
				},
				Risks: []string{"explicit connect/disconnect lifecycle is folded into the factory"},
				ValidationTests: []string{
					"verify the client is usable immediately after creation",
				},
			},
		},
	}
}

func pipelineSignature() Signature {
	return Signature{
		Type: models.PatternPipeline,
		Expressions: map[models.Dialect][]string{
			models.DialectIoredis: {
				`\.pipeline\s*\(\s*\)`,
				`pipeline\.exec\s*\(`,
			},
			models.DialectNodeRedis: {
				`\.execAsPipeline\s*\(`,
			},
		},
		ContextKeywords: []string{"pipeline", "exec", "batch"},
		Complexity:      models.ComplexityModerate,
		Requirements: []models.MigrationRequirement{
			{Severity: models.SeverityMedium, Description: "glide batches are command buffers executed through client.exec; chained command results keep their submission order"},
		},
		Strategies: []models.ConversionStrategy{
			{
				Name:        "pipeline-to-batch",
				Description: "Rewrite ioredis pipelines into non-atomic glide batches",
				AppliesTo:   []models.Dialect{models.DialectIoredis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionReplace, Target: `.pipeline()`, NewCode: `new Batch(false)`, Rationale: "a non-atomic batch is the glide equivalent of a pipeline"},
					{Order: 2, Action: models.ActionReplace, Target: `pipeline.exec()`, NewCode: `client.exec(pipeline, false)`, Rationale: "batches are executed by the client, not by the buffer itself"},
				},
				Risks: []string{"pipeline results lose the per-command [err, value] tuple shape"},
				ValidationTests: []string{
					"verify batched commands execute in submission order",
					"verify the result array shape matches consumer expectations",
				},
			},
			{
				Name:        "exec-as-pipeline-conversion",
				Description: "Rewrite node-redis execAsPipeline into non-atomic glide batches",
				AppliesTo:   []models.Dialect{models.DialectNodeRedis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionReplace, Target: `.multi()`, NewCode: `new Batch(false)`, Rationale: "execAsPipeline chains start from multi(); the glide equivalent is a non-atomic batch"},
					{Order: 2, Action: models.ActionReplace, Target: `.execAsPipeline()`, NewCode: `; await client.exec(batch, false)`, Rationale: "batches are executed by the client"},
				},
				Risks: []string{"chained command builders become explicit batch buffers"},
				ValidationTests: []string{
					"verify batched commands execute in submission order",
				},
			},
		},
	}
}

func transactionSignature() Signature {
	return Signature{
		Type: models.PatternTransaction,
		Expressions: map[models.Dialect][]string{
			models.DialectIoredis: {
				`\.multi\s*\(`,
				`multi\.exec\s*\(`,
				`\.watch\s*\(`,
			},
			models.DialectNodeRedis: {
				`\.multi\s*\(`,
				`\.watch\s*\(`,
				`\.exec\s*\(\s*\)`,
			},
		},
		ContextKeywords: []string{"multi", "exec", "watch", "transaction"},
		Complexity:      models.ComplexityComplex,
		Requirements: []models.MigrationRequirement{
			{Severity: models.SeverityHigh, Description: "glide transactions are atomic batches; WATCH/UNWATCH semantics need per-call review"},
			{Severity: models.SeverityMedium, Description: "a null exec result (aborted transaction) surfaces differently in glide"},
		},
		Strategies: []models.ConversionStrategy{
			{
				Name:        "multi-to-atomic-batch",
				Description: "Rewrite MULTI/EXEC transactions into atomic glide batches",
				AppliesTo:   []models.Dialect{models.DialectIoredis, models.DialectNodeRedis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionReplace, Target: `.multi()`, NewCode: `new Batch(true)`, Rationale: "an atomic batch is the glide equivalent of MULTI"},
					{Order: 2, Action: models.ActionReplace, Target: `multi.exec()`, NewCode: `client.exec(multi, true)`, Rationale: "batches are executed by the client"},
					{Order: 3, Action: models.ActionModify, Target: `.watch(`, NewCode: `.watch( /* review: optimistic locking must pair with the executing client */ `, Rationale: "WATCH is client-scoped in glide and silently moving it can change semantics"},
				},
				Risks: []string{
					"optimistic locking with WATCH may behave differently",
					"aborted transactions report null results in a different shape",
				},
				ValidationTests: []string{
					"verify the transaction aborts when a watched key changes",
					"verify atomicity of the converted batch",
				},
			},
		},
	}
}

func clusterSignature() Signature {
	return Signature{
		Type: models.PatternCluster,
		Expressions: map[models.Dialect][]string{
			models.DialectIoredis: {
				`new\s+Redis\.Cluster\s*\(`,
				`enableReadyCheck`,
				`clusterRetryStrategy`,
			},
			models.DialectNodeRedis: {
				`createCluster\s*\(`,
			},
		},
		ContextKeywords: []string{"cluster", "node", "slot", "startup"},
		Complexity:      models.ComplexityComplex,
		Requirements: []models.MigrationRequirement{
			{Severity: models.SeverityHigh, Description: "cluster topology options (ready checks, retry strategies) have no one-to-one glide equivalent"},
			{Severity: models.SeverityMedium, Description: "glide routes cluster commands automatically; manual slot handling should be removed"},
		},
		Strategies: []models.ConversionStrategy{
			{
				Name:        "cluster-client-conversion",
				Description: "Rewrite cluster client construction to GlideClusterClient",
				AppliesTo:   []models.Dialect{models.DialectIoredis, models.DialectNodeRedis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionReplace, Target: `new Redis.Cluster(`, NewCode: `await GlideClusterClient.createClient(`, Rationale: "cluster clients come from the async factory as well"},
					{Order: 2, Action: models.ActionReplace, Target: `createCluster(`, NewCode: `await GlideClusterClient.createClient(`, Rationale: "cluster clients come from the async factory as well"},
					{Order: 3, Action: models.ActionRemove, Target: `enableReadyCheck: true,`, NewCode: ``, Rationale: "glide performs its own readiness handling"},
				},
				Risks: []string{
					"retry and failover tuning does not carry over",
					"node addresses move into the addresses configuration list",
				},
				ValidationTests: []string{
					"verify cluster commands route across all nodes",
					"verify failover behavior under a node outage",
				},
			},
		},
	}
}

func pubsubSignature() Signature {
	return Signature{
		Type: models.PatternPubSub,
		Expressions: map[models.Dialect][]string{
			models.DialectIoredis: {
				`\.subscribe\s*\(`,
				`\.psubscribe\s*\(`,
				`\.publish\s*\(`,
				`\.on\s*\(\s*['"]message['"]`,
			},
			models.DialectNodeRedis: {
				`\.subscribe\s*\(`,
				`\.pSubscribe\s*\(`,
				`\.publish\s*\(`,
			},
		},
		ContextKeywords: []string{"subscribe", "publish", "channel", "message"},
		Complexity:      models.ComplexityComplex,
		Requirements: []models.MigrationRequirement{
			{Severity: models.SeverityHigh, Description: "glide subscriptions are declared in the client configuration; runtime subscribe/unsubscribe call sites must be restructured"},
			{Severity: models.SeverityMedium, Description: "message delivery moves from event emitters to a configured callback"},
		},
		Strategies: []models.ConversionStrategy{
			{
				Name:        "configured-pubsub-conversion",
				Description: "Move event-emitter pub/sub toward configuration-time subscriptions",
				AppliesTo:   []models.Dialect{models.DialectIoredis, models.DialectNodeRedis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionModify, Target: `.subscribe(`, NewCode: `.subscribe( /* review: declare in pubsubSubscriptions at client creation */ `, Rationale: "glide expects channels to be declared before the client connects"},
					{Order: 2, Action: models.ActionModify, Target: `.on('message'`, NewCode: `.on('message' /* review: replace with the configured message callback */`, Rationale: "the emitter API does not exist on glide clients"},
				},
				Risks: []string{
					"dynamic channel subscription at runtime is not directly supported",
					"message handler signature changes from (channel, message) to a PubSubMsg record",
				},
				ValidationTests: []string{
					"verify messages arrive on all migrated channels",
					"verify pattern subscriptions still match intended channels",
				},
			},
		},
	}
}

func streamingSignature() Signature {
	return Signature{
		Type: models.PatternStreaming,
		Expressions: map[models.Dialect][]string{
			models.DialectIoredis: {
				`\.xadd\s*\(`,
				`\.xread\s*\(`,
				`\.xreadgroup\s*\(`,
				`\.xack\s*\(`,
			},
			models.DialectNodeRedis: {
				`\.xAdd\s*\(`,
				`\.xRead\s*\(`,
				`\.xReadGroup\s*\(`,
				`\.xAck\s*\(`,
			},
		},
		ContextKeywords: []string{"stream", "xadd", "xread", "consumer", "group"},
		Complexity:      models.ComplexityComplex,
		Requirements: []models.MigrationRequirement{
			{Severity: models.SeverityHigh, Description: "stream entry shapes differ; consumers that index into reply arrays need rework"},
			{Severity: models.SeverityMedium, Description: "blocking reads take an options record instead of positional BLOCK arguments"},
		},
		Strategies: []models.ConversionStrategy{
			{
				Name:        "stream-command-conversion",
				Description: "Normalize stream command call sites to the glide method set",
				AppliesTo:   []models.Dialect{models.DialectNodeRedis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionReplace, Target: `.xAdd(`, NewCode: `.xadd(`, Rationale: "glide exposes lowercase stream command methods"},
					{Order: 2, Action: models.ActionReplace, Target: `.xRead(`, NewCode: `.xread(`, Rationale: "glide exposes lowercase stream command methods"},
					{Order: 3, Action: models.ActionReplace, Target: `.xReadGroup(`, NewCode: `.xreadgroup(`, Rationale: "glide exposes lowercase stream command methods"},
					{Order: 4, Action: models.ActionReplace, Target: `.xAck(`, NewCode: `.xack(`, Rationale: "glide exposes lowercase stream command methods"},
				},
				Risks: []string{"reply shapes for xread/xreadgroup differ between clients"},
				ValidationTests: []string{
					"verify stream entries round-trip with their field maps intact",
					"verify consumer-group acknowledgement flow",
				},
			},
			{
				Name:        "stream-options-review",
				Description: "Annotate ioredis stream call sites whose argument shapes change",
				AppliesTo:   []models.Dialect{models.DialectIoredis},
				Steps: []models.ConversionStep{
					{Order: 1, Action: models.ActionModify, Target: `.xreadgroup(`, NewCode: `.xreadgroup( /* review: group/consumer move into an options record */ `, Rationale: "positional GROUP arguments become a structured option"},
					{Order: 2, Action: models.ActionModify, Target: `.xread(`, NewCode: `.xread( /* review: BLOCK/COUNT move into an options record */ `, Rationale: "positional BLOCK arguments become a structured option"},
				},
				Risks: []string{"blocking semantics depend on correctly translated options"},
				ValidationTests: []string{
					"verify blocking reads time out as configured",
				},
			},
		},
	}
}
