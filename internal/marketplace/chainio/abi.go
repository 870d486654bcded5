package chainio

// Minimal ABI fragments for the escrow and arbitrator contracts: only the
// views and events the read model consumes.

const escrowABI = `[
	{"type":"function","name":"getTaskCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"reviewTimeout","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"tasks","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[
		{"name":"submissionTimeout","type":"uint256"},
		{"name":"minPrice","type":"uint256"},
		{"name":"maxPrice","type":"uint256"},
		{"name":"status","type":"uint8"},
		{"name":"deadline","type":"uint256"},
		{"name":"lastInteraction","type":"uint256"},
		{"name":"requester","type":"address"},
		{"name":"disputeID","type":"uint256"}
	]},
	{"type":"function","name":"getTaskParties","stateMutability":"view","inputs":[{"name":"_taskID","type":"uint256"}],"outputs":[{"name":"parties","type":"address[3]"}]},
	{"type":"function","name":"getDepositValue","stateMutability":"view","inputs":[{"name":"_taskID","type":"uint256"}],"outputs":[{"name":"deposit","type":"uint256"}]},
	{"type":"function","name":"getRoundInfo","stateMutability":"view","inputs":[{"name":"_taskID","type":"uint256"},{"name":"_round","type":"uint256"}],"outputs":[
		{"name":"paidFees","type":"uint256[3]"},
		{"name":"hasPaid","type":"bool[3]"},
		{"name":"feeRewards","type":"uint256"}
	]},
	{"type":"function","name":"getNumberOfRounds","stateMutability":"view","inputs":[{"name":"_taskID","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"winnerStakeMultiplier","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"loserStakeMultiplier","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"sharedStakeMultiplier","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"MULTIPLIER_DIVISOR","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"TaskCreated","inputs":[
		{"name":"_taskID","type":"uint256","indexed":true},
		{"name":"_requester","type":"address","indexed":true},
		{"name":"_timestamp","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"TaskAssigned","inputs":[
		{"name":"_taskID","type":"uint256","indexed":true},
		{"name":"_translator","type":"address","indexed":false},
		{"name":"_price","type":"uint256","indexed":false},
		{"name":"_timestamp","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"TranslationSubmitted","inputs":[
		{"name":"_taskID","type":"uint256","indexed":true},
		{"name":"_translator","type":"address","indexed":false},
		{"name":"_translatedText","type":"string","indexed":false},
		{"name":"_timestamp","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"TranslationChallenged","inputs":[
		{"name":"_taskID","type":"uint256","indexed":true},
		{"name":"_challenger","type":"address","indexed":false},
		{"name":"_timestamp","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"TaskResolved","inputs":[
		{"name":"_taskID","type":"uint256","indexed":true},
		{"name":"_reason","type":"string","indexed":false},
		{"name":"_timestamp","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"MetaEvidence","inputs":[
		{"name":"_metaEvidenceID","type":"uint256","indexed":true},
		{"name":"_evidence","type":"string","indexed":false}
	]},
	{"type":"event","name":"Dispute","inputs":[
		{"name":"_arbitrator","type":"address","indexed":true},
		{"name":"_disputeID","type":"uint256","indexed":true},
		{"name":"_metaEvidenceID","type":"uint256","indexed":false},
		{"name":"_evidenceGroupID","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"AppealContribution","inputs":[
		{"name":"_taskID","type":"uint256","indexed":true},
		{"name":"_party","type":"uint8","indexed":false},
		{"name":"_contributor","type":"address","indexed":true},
		{"name":"_amount","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"HasPaidAppealFee","inputs":[
		{"name":"_taskID","type":"uint256","indexed":true},
		{"name":"_party","type":"uint8","indexed":false}
	]}
]`

const arbitratorABI = `[
	{"type":"function","name":"disputeStatus","stateMutability":"view","inputs":[{"name":"_disputeID","type":"uint256"}],"outputs":[{"name":"status","type":"uint8"}]},
	{"type":"function","name":"currentRuling","stateMutability":"view","inputs":[{"name":"_disputeID","type":"uint256"}],"outputs":[{"name":"ruling","type":"uint256"}]},
	{"type":"function","name":"appealPeriod","stateMutability":"view","inputs":[{"name":"_disputeID","type":"uint256"}],"outputs":[{"name":"start","type":"uint256"},{"name":"end","type":"uint256"}]},
	{"type":"function","name":"appealCost","stateMutability":"view","inputs":[{"name":"_disputeID","type":"uint256"},{"name":"_extraData","type":"bytes"}],"outputs":[{"name":"cost","type":"uint256"}]}
]`
