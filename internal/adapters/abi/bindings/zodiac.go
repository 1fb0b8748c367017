package bindings

import "github.com/ethereum/go-ethereum/accounts/abi/bind/v2"

// ModuleProxyFactoryMetaData covers the Zodiac module proxy factory
var ModuleProxyFactoryMetaData = bind.MetaData{
	ID: "ModuleProxyFactory",
	ABI: `[
	{"type":"function","name":"deployModule","stateMutability":"nonpayable","inputs":[
		{"name":"masterCopy","type":"address"},
		{"name":"initializer","type":"bytes"},
		{"name":"saltNonce","type":"uint256"}],"outputs":[{"name":"proxy","type":"address"}]},
	{"type":"event","name":"ModuleProxyCreation","anonymous":false,"inputs":[
		{"name":"proxy","type":"address","indexed":true},
		{"name":"masterCopy","type":"address","indexed":true}]}
]`,
}

// AzoriusMetaData covers the Azorius governance module
var AzoriusMetaData = bind.MetaData{
	ID: "Azorius",
	ABI: `[
	{"type":"function","name":"setUp","stateMutability":"nonpayable","inputs":[{"name":"initializeParams","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"avatar","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"target","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"isStrategyEnabled","stateMutability":"view","inputs":[{"name":"_strategy","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"timelockPeriod","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint32"}]},
	{"type":"function","name":"executionPeriod","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint32"}]}
]`,
}

// LinearERC20VotingMetaData covers the token-weighted voting strategy
var LinearERC20VotingMetaData = bind.MetaData{
	ID: "LinearERC20Voting",
	ABI: `[
	{"type":"function","name":"setUp","stateMutability":"nonpayable","inputs":[{"name":"initializeParams","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"setAzorius","stateMutability":"nonpayable","inputs":[{"name":"_azoriusModule","type":"address"}],"outputs":[]},
	{"type":"function","name":"azoriusModule","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"votingPeriod","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint32"}]},
	{"type":"function","name":"quorumNumerator","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"basisNumerator","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`,
}

// FractalRegistryMetaData covers the DAO name registry
var FractalRegistryMetaData = bind.MetaData{
	ID: "FractalRegistry",
	ABI: `[
	{"type":"function","name":"updateDAOName","stateMutability":"nonpayable","inputs":[{"name":"_name","type":"string"}],"outputs":[]},
	{"type":"event","name":"FractalNameUpdated","anonymous":false,"inputs":[
		{"name":"daoAddress","type":"address","indexed":true},
		{"name":"daoName","type":"string","indexed":false}]}
]`,
}

// KeyValuePairsMetaData covers the DAO metadata store
var KeyValuePairsMetaData = bind.MetaData{
	ID: "KeyValuePairs",
	ABI: `[
	{"type":"function","name":"updateValues","stateMutability":"nonpayable","inputs":[
		{"name":"_keys","type":"string[]"},
		{"name":"_values","type":"string[]"}],"outputs":[]},
	{"type":"event","name":"ValueUpdated","anonymous":false,"inputs":[
		{"name":"theAddress","type":"address","indexed":true},
		{"name":"key","type":"string","indexed":false},
		{"name":"value","type":"string","indexed":false}]}
]`,
}
