package bindings

import "github.com/ethereum/go-ethereum/accounts/abi/bind/v2"

// ShutterTokenMetaData covers the governance token's one-time initializer
var ShutterTokenMetaData = bind.MetaData{
	ID: "ShutterToken",
	ABI: `[
	{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[
		{"name":"owner","type":"address"},
		{"name":"sptConversionContract","type":"address"},
		{"name":"airdropContract","type":"address"}],"outputs":[]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`,
}

// AddrsSeqMetaData covers the keyper and collator address sequences
var AddrsSeqMetaData = bind.MetaData{
	ID: "AddrsSeq",
	ABI: `[
	{"type":"function","name":"add","stateMutability":"nonpayable","inputs":[{"name":"newAddrs","type":"address[]"}],"outputs":[]},
	{"type":"function","name":"append","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"count","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint64"}]},
	{"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`,
}

// KeypersConfigsListMetaData covers the keyper set configuration list
var KeypersConfigsListMetaData = bind.MetaData{
	ID: "KeypersConfigsList",
	ABI: `[
	{"type":"function","name":"addNewCfg","stateMutability":"nonpayable","inputs":[
		{"name":"config","type":"tuple","internalType":"struct KeypersConfig","components":[
			{"name":"activationBlockNumber","type":"uint64"},
			{"name":"setIndex","type":"uint64"},
			{"name":"threshold","type":"uint64"}]}],"outputs":[]},
	{"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`,
}

// CollatorConfigsListMetaData covers the collator configuration list
var CollatorConfigsListMetaData = bind.MetaData{
	ID: "CollatorConfigsList",
	ABI: `[
	{"type":"function","name":"addNewCfg","stateMutability":"nonpayable","inputs":[
		{"name":"config","type":"tuple","internalType":"struct CollatorConfig","components":[
			{"name":"activationBlockNumber","type":"uint64"},
			{"name":"setIndex","type":"uint64"}]}],"outputs":[]},
	{"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`,
}

// KeypersConfig mirrors the KeypersConfig struct for addNewCfg
type KeypersConfig struct {
	ActivationBlockNumber uint64
	SetIndex              uint64
	Threshold             uint64
}

// CollatorConfig mirrors the CollatorConfig struct for addNewCfg
type CollatorConfig struct {
	ActivationBlockNumber uint64
	SetIndex              uint64
}
