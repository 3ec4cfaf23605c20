package registry

// ABI fragments for the on-chain collaborators. Function names follow the
// deployed TokenPool and FeeManager contracts.
const (
	TokenPoolABI = `[
		{"name":"getPoolBalance","type":"function","stateMutability":"view","inputs":[{"name":"token","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"maxTransactionAmount","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"setMaxTransactionAmount","type":"function","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
		{"name":"addLiquidity","type":"function","stateMutability":"nonpayable","inputs":[{"name":"token","type":"string"},{"name":"amount","type":"uint256"}],"outputs":[]},
		{"name":"removeLiquidity","type":"function","stateMutability":"nonpayable","inputs":[{"name":"token","type":"string"},{"name":"amount","type":"uint256"}],"outputs":[]},
		{"name":"initiateSwap","type":"function","stateMutability":"nonpayable","inputs":[{"name":"token","type":"string"},{"name":"amount","type":"uint256"},{"name":"destinationChainId","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[]}
	]`

	FeeManagerABI = `[
		{"name":"baseFee","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"discountedFee","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"calculateFee","type":"function","stateMutability":"view","inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"setFees","type":"function","stateMutability":"nonpayable","inputs":[{"name":"baseFee","type":"uint256"},{"name":"discountedFee","type":"uint256"}],"outputs":[]}
	]`
)
