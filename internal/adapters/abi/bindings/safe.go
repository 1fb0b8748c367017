package bindings

import "github.com/ethereum/go-ethereum/accounts/abi/bind/v2"

// GnosisSafeMetaData covers the Safe 1.3.0 singleton methods the planner
// calls through the Safe proxy.
var GnosisSafeMetaData = bind.MetaData{
	ID: "GnosisSafe",
	ABI: `[
	{"type":"function","name":"setup","stateMutability":"nonpayable","inputs":[
		{"name":"_owners","type":"address[]"},
		{"name":"_threshold","type":"uint256"},
		{"name":"to","type":"address"},
		{"name":"data","type":"bytes"},
		{"name":"fallbackHandler","type":"address"},
		{"name":"paymentToken","type":"address"},
		{"name":"payment","type":"uint256"},
		{"name":"paymentReceiver","type":"address"}],"outputs":[]},
	{"type":"function","name":"execTransaction","stateMutability":"payable","inputs":[
		{"name":"to","type":"address"},
		{"name":"value","type":"uint256"},
		{"name":"data","type":"bytes"},
		{"name":"operation","type":"uint8"},
		{"name":"safeTxGas","type":"uint256"},
		{"name":"baseGas","type":"uint256"},
		{"name":"gasPrice","type":"uint256"},
		{"name":"gasToken","type":"address"},
		{"name":"refundReceiver","type":"address"},
		{"name":"signatures","type":"bytes"}],"outputs":[{"name":"success","type":"bool"}]},
	{"type":"function","name":"enableModule","stateMutability":"nonpayable","inputs":[{"name":"module","type":"address"}],"outputs":[]},
	{"type":"function","name":"addOwnerWithThreshold","stateMutability":"nonpayable","inputs":[
		{"name":"owner","type":"address"},
		{"name":"_threshold","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"removeOwner","stateMutability":"nonpayable","inputs":[
		{"name":"prevOwner","type":"address"},
		{"name":"owner","type":"address"},
		{"name":"_threshold","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getOwners","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
	{"type":"function","name":"getThreshold","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"isModuleEnabled","stateMutability":"view","inputs":[{"name":"module","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"nonce","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"ExecutionSuccess","anonymous":false,"inputs":[
		{"name":"txHash","type":"bytes32","indexed":false},
		{"name":"payment","type":"uint256","indexed":false}]},
	{"type":"event","name":"ExecutionFailure","anonymous":false,"inputs":[
		{"name":"txHash","type":"bytes32","indexed":false},
		{"name":"payment","type":"uint256","indexed":false}]}
]`,
}

// GnosisSafeProxyFactoryMetaData covers GnosisSafeProxyFactory 1.3.0
var GnosisSafeProxyFactoryMetaData = bind.MetaData{
	ID: "GnosisSafeProxyFactory",
	ABI: `[
	{"type":"function","name":"createProxyWithNonce","stateMutability":"nonpayable","inputs":[
		{"name":"_singleton","type":"address"},
		{"name":"initializer","type":"bytes"},
		{"name":"saltNonce","type":"uint256"}],"outputs":[{"name":"proxy","type":"address"}]},
	{"type":"function","name":"proxyCreationCode","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"bytes"}]},
	{"type":"event","name":"ProxyCreation","anonymous":false,"inputs":[
		{"name":"proxy","type":"address","indexed":false},
		{"name":"singleton","type":"address","indexed":false}]}
]`,
}

// MultiSendMetaData covers both MultiSend and MultiSendCallOnly
var MultiSendMetaData = bind.MetaData{
	ID: "MultiSend",
	ABI: `[
	{"type":"function","name":"multiSend","stateMutability":"payable","inputs":[{"name":"transactions","type":"bytes"}],"outputs":[]}
]`,
}
